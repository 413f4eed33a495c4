package domain

// Group holds the commission configuration of a customer group. The
// aggregation joins it by customer_group_id; rows with a provision of 0
// are ignored.
type Group struct {
	CustomerGroupID int64   `gorm:"column:customer_group_id;primaryKey"`
	Provision       float64 `gorm:"column:provision"`
	ProvisionTypeID string  `gorm:"column:provision_type;size:32"`
	Salutation      string  `gorm:"column:salutation;size:32"`
	Firstname       string  `gorm:"column:firstname;size:64"`
	Lastname        string  `gorm:"column:lastname;size:64"`
	Email           string  `gorm:"column:email;size:255"`
	Street          string  `gorm:"column:street;size:255"`
	CityZip         string  `gorm:"column:city_zip;size:64"`
}

func (Group) TableName() string { return "commission_groups" }
