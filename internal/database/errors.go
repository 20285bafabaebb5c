// errors.go
//
// A Go Fiber storefront backend: catalog, accounts, product images and realtime presence
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of storefront.
// storefront is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// storefront is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with storefront.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package database

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	mssql "github.com/microsoft/go-mssqldb"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	mysqlDuplicateEntry   = 1062
	mssqlUniqueConstraint = 2627
	mssqlUniqueIndex      = 2601
)

// UniqueViolation reports whether err is a unique key violation from any of the
// supported drivers, returning the driver's detail text
func UniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == pgUniqueViolation {
		if pgError.Detail != "" {
			return pgError.Detail, true
		}
		return pgError.Message, true
	}

	var mysqlError *mysql.MySQLError
	if errors.As(err, &mysqlError) && mysqlError.Number == mysqlDuplicateEntry {
		return mysqlError.Message, true
	}

	var mssqlError mssql.Error
	if errors.As(err, &mssqlError) &&
		(mssqlError.Number == mssqlUniqueConstraint || mssqlError.Number == mssqlUniqueIndex) {
		return mssqlError.Message, true
	}

	var sqliteError sqlite3.Error
	if errors.As(err, &sqliteError) &&
		(sqliteError.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteError.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return sqliteError.Error(), true
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return err.Error(), true
	}

	return "", false
}
