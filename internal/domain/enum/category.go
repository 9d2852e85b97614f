package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// Category is the product classification shown in the catalog.
type Category string

const (
	CategoryBicycle     Category = "Bicycle"
	CategoryAccessories Category = "Accessories"
	CategoryParts       Category = "Parts"
	CategoryClothing    Category = "Clothing"
	CategoryTools       Category = "Tools"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryBicycle, CategoryAccessories, CategoryParts, CategoryClothing, CategoryTools:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(c))
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*c = Category(str)
	return nil
}

func (c Category) Value() (driver.Value, error) {
	return string(c), nil
}

func (c *Category) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*c = Category(v)
	case []byte:
		*c = Category(string(v))
	}
	return nil
}
