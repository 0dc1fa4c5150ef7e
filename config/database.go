package config

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var enumQueries = []string{
	`CREATE TYPE cems.member_status AS ENUM ('pending', 'accepted', 'rejected')`,
	`CREATE TYPE cems.payment_status AS ENUM ('unpaid', 'processing', 'paid')`,
}

func InitDB(host string, port string, user string, password string, dbName string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", host, port, user, password, dbName)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   "cems.",
			SingularTable: false,
		},
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := CreateSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

// CreateSchema creates the cems schema and its enum types. Enum creation is
// idempotent so restarts against an initialized database succeed.
func CreateSchema(db *gorm.DB) error {
	x := db.Exec(`CREATE SCHEMA IF NOT EXISTS cems`)
	if x.Error != nil {
		return x.Error
	}
	for _, query := range enumQueries {
		x := db.Exec(query)
		if x.Error != nil {
			if strings.Contains(x.Error.Error(), "already exists") {
				continue
			}
			return x.Error
		}
	}
	return nil
}
