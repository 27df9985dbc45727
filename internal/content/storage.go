package content

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Value 实现 driver.Valuer，nil 块列表存为 []
func (d Document) Value() (driver.Value, error) {
	if d.Blocks == nil {
		d.Blocks = []Block{}
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (d *Document) Scan(value any) error {
	data, err := scanBytes(value)
	if err != nil {
		return fmt.Errorf("content: scan document: %w", err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

func (Document) GormDataType() string { return "json" }

func (Document) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return jsonColumnType(db)
}

// IndexEntries 文章目录项的存储形式
type IndexEntries []IndexEntry

func (e IndexEntries) Value() (driver.Value, error) {
	if e == nil {
		e = IndexEntries{}
	}
	b, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (e *IndexEntries) Scan(value any) error {
	data, err := scanBytes(value)
	if err != nil {
		return fmt.Errorf("content: scan index entries: %w", err)
	}
	if len(data) == 0 {
		*e = nil
		return nil
	}
	var entries []IndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("content: decode index entries: %w", err)
	}
	*e = entries
	return nil
}

func (IndexEntries) GormDataType() string { return "json" }

func (IndexEntries) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return jsonColumnType(db)
}

func jsonColumnType(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "JSON"
}

func scanBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported type %T", value)
	}
}
