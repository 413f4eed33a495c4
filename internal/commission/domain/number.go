package domain

import "time"

// Number is the persistent per-(year,month,group) statement sequence. The
// sequence value is the storage-assigned ida; rows are created at most
// once per key and never updated.
type Number struct {
	Ida       int64     `gorm:"column:ida;primaryKey;autoIncrement"`
	ID        int64     `gorm:"column:id;uniqueIndex"`
	GroupName string    `gorm:"column:group_name;size:16;uniqueIndex:ux_commission_numbers_period"`
	Year      int       `gorm:"column:year;uniqueIndex:ux_commission_numbers_period"`
	Month     int       `gorm:"column:month;uniqueIndex:ux_commission_numbers_period"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Number) TableName() string { return "commission_numbers" }
