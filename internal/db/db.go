package db

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

type DBI struct {
	User     string
	Password string
	Endpoint string
	Port     int
	Database string
}

func CreateConnection(i DBI) (*sqlx.DB, error) {
	// DSN (Data Source Name)
	// (timeout=5s: 스토어 장애 시 무한 대기 대신 빠른 실패)
	DSN := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&timeout=5s",
		i.User, i.Password, i.Endpoint, i.Port, i.Database)

	// sqlx.Connect
	db, err := sqlx.Connect("mysql", DSN)
	if err != nil {
		return nil, err
	}

	return db, nil
}
