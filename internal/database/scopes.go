package database

import (
	"math"
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// NameContains filters by a case-insensitive substring of the name column.
// An empty keyword adds no condition.
func NameContains(keyword string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			return db
		}
		pattern := "%" + likeEscaper.Replace(strings.ToLower(keyword)) + "%"
		return db.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	}
}

// Paginate applies offset pagination; pages are 1-based. A page whose
// offset does not fit in an int matches nothing.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		if pageSize < 1 {
			pageSize = 1
		}
		if page-1 > math.MaxInt/pageSize {
			return db.Where("1 = 0")
		}
		return db.Limit(pageSize).Offset(pageSize * (page - 1))
	}
}
