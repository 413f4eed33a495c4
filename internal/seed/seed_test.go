package seed

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	commissiondomain "github.com/nadeos/bmd-exporter/internal/commission/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&commissiondomain.Group{}))
	return db
}

func TestEnsureDemoGroupsIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, EnsureDemoGroups(db))
	require.NoError(t, EnsureDemoGroups(db))

	var count int64
	require.NoError(t, db.Model(&commissiondomain.Group{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestEnsureDemoGroupsKeepsExistingRows(t *testing.T) {
	db := openTestDB(t)

	existing := commissiondomain.Group{CustomerGroupID: 1, Provision: 25, ProvisionTypeID: "default"}
	require.NoError(t, db.Create(&existing).Error)

	require.NoError(t, EnsureDemoGroups(db))

	var group commissiondomain.Group
	require.NoError(t, db.First(&group, "customer_group_id = ?", int64(1)).Error)
	assert.Equal(t, 25.0, group.Provision)
}

func TestEnsureDemoGroupsRequiresHandle(t *testing.T) {
	assert.Error(t, EnsureDemoGroups(nil))
}
