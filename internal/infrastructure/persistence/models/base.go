package models

import (
	"github.com/logiport/backend/internal/domain/shared"
)

// LocalizedNames maps the name_ar/name_en/name_tr column triple
type LocalizedNames struct {
	NameAR string `gorm:"column:name_ar;type:varchar(255)"`
	NameEN string `gorm:"column:name_en;type:varchar(255)"`
	NameTR string `gorm:"column:name_tr;type:varchar(255)"`
}

// ToDomain converts the column triple to a LocalizedText
func (n LocalizedNames) ToDomain() shared.LocalizedText {
	return shared.LocalizedText{AR: n.NameAR, EN: n.NameEN, TR: n.NameTR}
}

// LocalizedNamesFromDomain creates the column triple from a LocalizedText
func LocalizedNamesFromDomain(t shared.LocalizedText) LocalizedNames {
	return LocalizedNames{NameAR: t.AR, NameEN: t.EN, NameTR: t.TR}
}
