package storage

import "time"

type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

type SettingListFilter struct {
	Prefix string
	Limit  int
	Offset int
}
