package entities

type Ingredient struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit" json:"name"`
	MeasurementUnit string `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit"`
}

type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:200;not null;uniqueIndex" json:"name"`
	Color string `gorm:"size:7;not null;uniqueIndex" json:"color"`
	Slug  string `gorm:"size:200;not null;uniqueIndex" json:"slug"`
}
