// internal/model/recipient.go
package model

// Record is one row of a recipient dataset, keyed by column name.
type Record map[string]string

// Dataset is a tabular collection of recipient records with a designated
// email-address column. Built once at load time, read-only afterwards.
type Dataset struct {
	Columns     []string
	Rows        []Record
	EmailColumn string
}

func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}
