package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// Outlet identifies one of the fixed retail locations. It partitions products and bills.
type Outlet string

const (
	OutletHarigala Outlet = "harigala"
	OutletArandara Outlet = "arandara"
)

// Outlets lists every known outlet in display order.
var Outlets = []Outlet{OutletHarigala, OutletArandara}

// ParseOutlet normalises s and reports whether it names a known outlet.
func ParseOutlet(s string) (Outlet, bool) {
	o := Outlet(strings.ToLower(strings.TrimSpace(s)))
	return o, o.IsValid()
}

func (o Outlet) IsValid() bool {
	switch o {
	case OutletHarigala, OutletArandara:
		return true
	}
	return false
}

func (o Outlet) String() string {
	return string(o)
}

// DisplayName is the capitalised outlet name used on receipts.
func (o Outlet) DisplayName() string {
	if o == "" {
		return ""
	}
	return strings.ToUpper(string(o[:1])) + string(o[1:])
}

func (o Outlet) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(o))
}

func (o *Outlet) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*o = Outlet(strings.ToLower(strings.TrimSpace(str)))
	return nil
}

func (o Outlet) Value() (driver.Value, error) {
	return string(o), nil
}

func (o *Outlet) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*o = Outlet(v)
	case []byte:
		*o = Outlet(string(v))
	case nil:
		*o = ""
	}
	return nil
}
