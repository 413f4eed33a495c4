package seed

import (
	"errors"

	commissiondomain "github.com/nadeos/bmd-exporter/internal/commission/domain"
	"gorm.io/gorm"
)

// EnsureDemoGroups seeds two commission group configurations so the
// reports return data against an empty development database. Existing
// rows are never touched.
func EnsureDemoGroups(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	groups := []commissiondomain.Group{
		{
			CustomerGroupID: 1,
			Provision:       10,
			ProvisionTypeID: "default",
			Salutation:      "Herr",
			Firstname:       "Max",
			Lastname:        "Mustermann",
			Email:           "max.mustermann@example.com",
			Street:          "Musterstraße 1",
			CityZip:         "1010 Wien",
		},
		{
			CustomerGroupID: 2,
			Provision:       5,
			ProvisionTypeID: "internal",
			Salutation:      "Frau",
			Firstname:       "Erika",
			Lastname:        "Musterfrau",
			Email:           "erika.musterfrau@example.com",
			Street:          "Beispielgasse 2",
			CityZip:         "4020 Linz",
		},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, group := range groups {
			var count int64
			if err := tx.Model(&commissiondomain.Group{}).
				Where("customer_group_id = ?", group.CustomerGroupID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if err := tx.Create(&group).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
