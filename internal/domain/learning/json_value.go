package learning

import (
	"database/sql/driver"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// JSONValue holds one encoded JSON value of any shape, scalars included. It is
// jsonb on Postgres and plain text on other dialects, where a JSON column type
// would coerce a bare number into an integer.
type JSONValue []byte

func (JSONValue) GormDataType() string { return "json" }

func (JSONValue) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}

func (j JSONValue) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSONValue) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append(JSONValue(nil), v...)
	case string:
		*j = JSONValue(v)
	case int64:
		*j = JSONValue(strconv.FormatInt(v, 10))
	case float64:
		*j = JSONValue(strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		*j = JSONValue(strconv.FormatBool(v))
	default:
		return fmt.Errorf("json value: unsupported scan type %T", src)
	}
	return nil
}

func (j JSONValue) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSONValue) UnmarshalJSON(data []byte) error {
	*j = append(JSONValue(nil), data...)
	return nil
}
