package typemap

type directionKey struct {
	from Dialect
	to   Dialect
}

// mappingTables holds the built-in base-type translation for every
// ordered dialect pair. Keys are uppercased base type names; absent keys
// pass through unchanged.
var mappingTables = map[directionKey]map[string]string{
	{DialectPostgres, DialectMySQL}:  postgresToMySQL,
	{DialectPostgres, DialectSQLite}: postgresToSQLite,
	{DialectPostgres, DialectMSSQL}:  postgresToMSSQL,
	{DialectMySQL, DialectPostgres}:  mysqlToPostgres,
	{DialectMySQL, DialectSQLite}:    mysqlToSQLite,
	{DialectMySQL, DialectMSSQL}:     mysqlToMSSQL,
	{DialectSQLite, DialectPostgres}: sqliteToPostgres,
	{DialectSQLite, DialectMySQL}:    sqliteToMySQL,
	{DialectSQLite, DialectMSSQL}:    sqliteToMSSQL,
	{DialectMSSQL, DialectPostgres}:  mssqlToPostgres,
	{DialectMSSQL, DialectMySQL}:     mssqlToMySQL,
	{DialectMSSQL, DialectSQLite}:    mssqlToSQLite,
}

var postgresToMySQL = map[string]string{
	"SERIAL":                      "INT AUTO_INCREMENT",
	"BIGSERIAL":                   "BIGINT AUTO_INCREMENT",
	"SMALLSERIAL":                 "SMALLINT AUTO_INCREMENT",
	"INTEGER":                     "INT",
	"INT4":                        "INT",
	"BIGINT":                      "BIGINT",
	"INT8":                        "BIGINT",
	"SMALLINT":                    "SMALLINT",
	"INT2":                        "SMALLINT",
	"BOOLEAN":                     "TINYINT(1)",
	"BOOL":                        "TINYINT(1)",
	"TEXT":                        "LONGTEXT",
	"VARCHAR":                     "VARCHAR",
	"CHARACTER VARYING":           "VARCHAR",
	"CHAR":                        "CHAR",
	"CHARACTER":                   "CHAR",
	"REAL":                        "FLOAT",
	"FLOAT4":                      "FLOAT",
	"DOUBLE PRECISION":            "DOUBLE",
	"FLOAT8":                      "DOUBLE",
	"NUMERIC":                     "DECIMAL",
	"DECIMAL":                     "DECIMAL",
	"BYTEA":                       "LONGBLOB",
	"TIMESTAMP":                   "DATETIME",
	"TIMESTAMP WITHOUT TIME ZONE": "DATETIME",
	"TIMESTAMP WITH TIME ZONE":    "DATETIME",
	"TIMESTAMPTZ":                 "DATETIME",
	"DATE":                        "DATE",
	"TIME":                        "TIME",
	"TIME WITHOUT TIME ZONE":      "TIME",
	"TIME WITH TIME ZONE":         "TIME",
	"TIMETZ":                      "TIME",
	"INTERVAL":                    "VARCHAR(255)",
	"UUID":                        "CHAR(36)",
	"JSON":                        "JSON",
	"JSONB":                       "JSON",
	"INET":                        "VARCHAR(45)",
	"CIDR":                        "VARCHAR(45)",
	"MACADDR":                     "VARCHAR(17)",
	"MACADDR8":                    "VARCHAR(17)",
	"MONEY":                       "DECIMAL(19, 4)",
	"OID":                         "INT UNSIGNED",
	"BIT":                         "BIT",
	"BIT VARYING":                 "VARBINARY",
	"VARBIT":                      "VARBINARY",
	"POINT":                       "GEOMETRY",
	"LINE":                        "GEOMETRY",
	"LSEG":                        "GEOMETRY",
	"BOX":                         "GEOMETRY",
	"PATH":                        "GEOMETRY",
	"POLYGON":                     "GEOMETRY",
	"CIRCLE":                      "GEOMETRY",
	"XML":                         "LONGTEXT",
}

var postgresToSQLite = map[string]string{
	"SERIAL":                      "INTEGER PRIMARY KEY",
	"BIGSERIAL":                   "INTEGER PRIMARY KEY",
	"SMALLSERIAL":                 "INTEGER PRIMARY KEY",
	"INTEGER":                     "INTEGER",
	"INT4":                        "INTEGER",
	"INT":                         "INTEGER",
	"BIGINT":                      "INTEGER",
	"INT8":                        "INTEGER",
	"SMALLINT":                    "INTEGER",
	"INT2":                        "INTEGER",
	"BOOLEAN":                     "INTEGER",
	"BOOL":                        "INTEGER",
	"TEXT":                        "TEXT",
	"VARCHAR":                     "TEXT",
	"CHARACTER VARYING":           "TEXT",
	"CHAR":                        "TEXT",
	"CHARACTER":                   "TEXT",
	"REAL":                        "REAL",
	"FLOAT4":                      "REAL",
	"DOUBLE PRECISION":            "REAL",
	"FLOAT8":                      "REAL",
	"NUMERIC":                     "REAL",
	"DECIMAL":                     "REAL",
	"BYTEA":                       "BLOB",
	"TIMESTAMP":                   "TEXT",
	"TIMESTAMP WITHOUT TIME ZONE": "TEXT",
	"TIMESTAMP WITH TIME ZONE":    "TEXT",
	"TIMESTAMPTZ":                 "TEXT",
	"DATE":                        "TEXT",
	"TIME":                        "TEXT",
	"TIME WITHOUT TIME ZONE":      "TEXT",
	"TIME WITH TIME ZONE":         "TEXT",
	"TIMETZ":                      "TEXT",
	"INTERVAL":                    "TEXT",
	"UUID":                        "TEXT",
	"JSON":                        "TEXT",
	"JSONB":                       "TEXT",
	"INET":                        "TEXT",
	"CIDR":                        "TEXT",
	"MACADDR":                     "TEXT",
	"MACADDR8":                    "TEXT",
	"MONEY":                       "REAL",
	"OID":                         "INTEGER",
	"BIT":                         "BLOB",
	"BIT VARYING":                 "BLOB",
	"VARBIT":                      "BLOB",
	"POINT":                       "TEXT",
	"LINE":                        "TEXT",
	"LSEG":                        "TEXT",
	"BOX":                         "TEXT",
	"PATH":                        "TEXT",
	"POLYGON":                     "TEXT",
	"CIRCLE":                      "TEXT",
	"XML":                         "TEXT",
}

var postgresToMSSQL = map[string]string{
	"SERIAL":                      "INT IDENTITY(1,1)",
	"BIGSERIAL":                   "BIGINT IDENTITY(1,1)",
	"SMALLSERIAL":                 "SMALLINT IDENTITY(1,1)",
	"INTEGER":                     "INT",
	"INT4":                        "INT",
	"BIGINT":                      "BIGINT",
	"INT8":                        "BIGINT",
	"SMALLINT":                    "SMALLINT",
	"INT2":                        "SMALLINT",
	"BOOLEAN":                     "BIT",
	"BOOL":                        "BIT",
	"TEXT":                        "NVARCHAR(MAX)",
	"VARCHAR":                     "NVARCHAR",
	"CHARACTER VARYING":           "NVARCHAR",
	"CHAR":                        "NCHAR",
	"CHARACTER":                   "NCHAR",
	"REAL":                        "REAL",
	"FLOAT4":                      "REAL",
	"DOUBLE PRECISION":            "FLOAT",
	"FLOAT8":                      "FLOAT",
	"NUMERIC":                     "DECIMAL",
	"DECIMAL":                     "DECIMAL",
	"BYTEA":                       "VARBINARY(MAX)",
	"TIMESTAMP":                   "DATETIME2",
	"TIMESTAMP WITHOUT TIME ZONE": "DATETIME2",
	"TIMESTAMP WITH TIME ZONE":    "DATETIMEOFFSET",
	"TIMESTAMPTZ":                 "DATETIMEOFFSET",
	"DATE":                        "DATE",
	"TIME":                        "TIME",
	"TIME WITHOUT TIME ZONE":      "TIME",
	"TIME WITH TIME ZONE":         "TIME",
	"TIMETZ":                      "TIME",
	"INTERVAL":                    "NVARCHAR(255)",
	"UUID":                        "UNIQUEIDENTIFIER",
	"JSON":                        "NVARCHAR(MAX)",
	"JSONB":                       "NVARCHAR(MAX)",
	"INET":                        "NVARCHAR(45)",
	"CIDR":                        "NVARCHAR(45)",
	"MACADDR":                     "NVARCHAR(17)",
	"MACADDR8":                    "NVARCHAR(17)",
	"MONEY":                       "MONEY",
	"OID":                         "INT",
	"BIT":                         "BIT",
	"BIT VARYING":                 "VARBINARY",
	"VARBIT":                      "VARBINARY",
	"POINT":                       "GEOMETRY",
	"LINE":                        "GEOMETRY",
	"LSEG":                        "GEOMETRY",
	"BOX":                         "GEOMETRY",
	"PATH":                        "GEOMETRY",
	"POLYGON":                     "GEOMETRY",
	"CIRCLE":                      "GEOMETRY",
	"XML":                         "XML",
}

var mysqlToPostgres = map[string]string{
	"TINYINT":            "SMALLINT",
	"MEDIUMINT":          "INTEGER",
	"INT":                "INTEGER",
	"INTEGER":            "INTEGER",
	"BIGINT":             "BIGINT",
	"SMALLINT":           "SMALLINT",
	"FLOAT":              "REAL",
	"DOUBLE":             "DOUBLE PRECISION",
	"DOUBLE PRECISION":   "DOUBLE PRECISION",
	"DECIMAL":            "NUMERIC",
	"NUMERIC":            "NUMERIC",
	"BIT":                "BIT",
	"BOOL":               "BOOLEAN",
	"BOOLEAN":            "BOOLEAN",
	"CHAR":               "CHAR",
	"VARCHAR":            "VARCHAR",
	"TINYTEXT":           "TEXT",
	"TEXT":               "TEXT",
	"MEDIUMTEXT":         "TEXT",
	"LONGTEXT":           "TEXT",
	"BINARY":             "BYTEA",
	"VARBINARY":          "BYTEA",
	"TINYBLOB":           "BYTEA",
	"BLOB":               "BYTEA",
	"MEDIUMBLOB":         "BYTEA",
	"LONGBLOB":           "BYTEA",
	"DATE":               "DATE",
	"TIME":               "TIME",
	"DATETIME":           "TIMESTAMP",
	"TIMESTAMP":          "TIMESTAMP WITH TIME ZONE",
	"YEAR":               "SMALLINT",
	"ENUM":               "VARCHAR(255)",
	"SET":                "VARCHAR(255)",
	"JSON":               "JSONB",
	"GEOMETRY":           "GEOMETRY",
	"POINT":              "GEOMETRY",
	"LINESTRING":         "GEOMETRY",
	"POLYGON":            "GEOMETRY",
	"MULTIPOINT":         "GEOMETRY",
	"MULTILINESTRING":    "GEOMETRY",
	"MULTIPOLYGON":       "GEOMETRY",
	"GEOMETRYCOLLECTION": "GEOMETRY",
}

var mysqlToSQLite = map[string]string{
	"TINYINT":          "INTEGER",
	"SMALLINT":         "INTEGER",
	"MEDIUMINT":        "INTEGER",
	"INT":              "INTEGER",
	"INTEGER":          "INTEGER",
	"BIGINT":           "INTEGER",
	"FLOAT":            "REAL",
	"DOUBLE":           "REAL",
	"DOUBLE PRECISION": "REAL",
	"DECIMAL":          "REAL",
	"NUMERIC":          "REAL",
	"BIT":              "INTEGER",
	"BOOL":             "INTEGER",
	"BOOLEAN":          "INTEGER",
	"CHAR":             "TEXT",
	"VARCHAR":          "TEXT",
	"TINYTEXT":         "TEXT",
	"TEXT":             "TEXT",
	"MEDIUMTEXT":       "TEXT",
	"LONGTEXT":         "TEXT",
	"ENUM":             "TEXT",
	"SET":              "TEXT",
	"BINARY":           "BLOB",
	"VARBINARY":        "BLOB",
	"TINYBLOB":         "BLOB",
	"BLOB":             "BLOB",
	"MEDIUMBLOB":       "BLOB",
	"LONGBLOB":         "BLOB",
	"DATE":             "TEXT",
	"TIME":             "TEXT",
	"DATETIME":         "TEXT",
	"TIMESTAMP":        "TEXT",
	"YEAR":             "TEXT",
	"JSON":             "TEXT",
	"GEOMETRY":         "TEXT",
	"POINT":            "TEXT",
	"LINESTRING":       "TEXT",
	"POLYGON":          "TEXT",
}

var mysqlToMSSQL = map[string]string{
	"TINYINT":          "TINYINT",
	"SMALLINT":         "SMALLINT",
	"MEDIUMINT":        "INT",
	"INT":              "INT",
	"INTEGER":          "INT",
	"BIGINT":           "BIGINT",
	"FLOAT":            "REAL",
	"DOUBLE":           "FLOAT",
	"DOUBLE PRECISION": "FLOAT",
	"DECIMAL":          "DECIMAL",
	"NUMERIC":          "DECIMAL",
	"BIT":              "BIT",
	"BOOL":             "BIT",
	"BOOLEAN":          "BIT",
	"CHAR":             "NCHAR",
	"VARCHAR":          "NVARCHAR",
	"TINYTEXT":         "NVARCHAR(MAX)",
	"TEXT":             "NVARCHAR(MAX)",
	"MEDIUMTEXT":       "NVARCHAR(MAX)",
	"LONGTEXT":         "NVARCHAR(MAX)",
	"BINARY":           "BINARY",
	"VARBINARY":        "VARBINARY",
	"TINYBLOB":         "VARBINARY(MAX)",
	"BLOB":             "VARBINARY(MAX)",
	"MEDIUMBLOB":       "VARBINARY(MAX)",
	"LONGBLOB":         "VARBINARY(MAX)",
	"DATE":             "DATE",
	"TIME":             "TIME",
	"DATETIME":         "DATETIME2",
	"TIMESTAMP":        "DATETIME2",
	"YEAR":             "SMALLINT",
	"ENUM":             "NVARCHAR(255)",
	"SET":              "NVARCHAR(255)",
	"JSON":             "NVARCHAR(MAX)",
	"GEOMETRY":         "GEOMETRY",
	"POINT":            "GEOMETRY",
	"LINESTRING":       "GEOMETRY",
	"POLYGON":          "GEOMETRY",
}

var sqliteToPostgres = map[string]string{
	"INTEGER": "INTEGER",
	"INT":     "INTEGER",
	"REAL":    "DOUBLE PRECISION",
	"TEXT":    "TEXT",
	"BLOB":    "BYTEA",
	"NUMERIC": "NUMERIC",
	"BOOLEAN": "BOOLEAN",
}

var sqliteToMySQL = map[string]string{
	"INTEGER": "BIGINT",
	"INT":     "BIGINT",
	"REAL":    "DOUBLE",
	"TEXT":    "LONGTEXT",
	"BLOB":    "LONGBLOB",
	"NUMERIC": "DECIMAL(65, 30)",
	"BOOLEAN": "TINYINT(1)",
}

var sqliteToMSSQL = map[string]string{
	"INTEGER": "BIGINT",
	"INT":     "BIGINT",
	"REAL":    "FLOAT",
	"TEXT":    "NVARCHAR(MAX)",
	"BLOB":    "VARBINARY(MAX)",
	"NUMERIC": "DECIMAL(38, 19)",
	"BOOLEAN": "BIT",
}

var mssqlToPostgres = map[string]string{
	"TINYINT":          "SMALLINT",
	"SMALLINT":         "SMALLINT",
	"INT":              "INTEGER",
	"BIGINT":           "BIGINT",
	"REAL":             "REAL",
	"FLOAT":            "DOUBLE PRECISION",
	"DECIMAL":          "NUMERIC",
	"NUMERIC":          "NUMERIC",
	"MONEY":            "MONEY",
	"SMALLMONEY":       "NUMERIC(10, 4)",
	"BIT":              "BOOLEAN",
	"CHAR":             "CHAR",
	"VARCHAR":          "VARCHAR",
	"NCHAR":            "CHAR",
	"NVARCHAR":         "VARCHAR",
	"TEXT":             "TEXT",
	"NTEXT":            "TEXT",
	"BINARY":           "BYTEA",
	"VARBINARY":        "BYTEA",
	"IMAGE":            "BYTEA",
	"DATE":             "DATE",
	"TIME":             "TIME",
	"DATETIME":         "TIMESTAMP",
	"SMALLDATETIME":    "TIMESTAMP",
	"DATETIME2":        "TIMESTAMP",
	"DATETIMEOFFSET":   "TIMESTAMP WITH TIME ZONE",
	"UNIQUEIDENTIFIER": "UUID",
	"XML":              "XML",
	"GEOMETRY":         "GEOMETRY",
	"GEOGRAPHY":        "GEOMETRY",
	"HIERARCHYID":      "VARCHAR(255)",
	"SQL_VARIANT":      "TEXT",
}

var mssqlToMySQL = map[string]string{
	"TINYINT":          "TINYINT UNSIGNED",
	"SMALLINT":         "SMALLINT",
	"INT":              "INT",
	"BIGINT":           "BIGINT",
	"REAL":             "FLOAT",
	"FLOAT":            "DOUBLE",
	"DECIMAL":          "DECIMAL",
	"NUMERIC":          "DECIMAL",
	"MONEY":            "DECIMAL(19, 4)",
	"SMALLMONEY":       "DECIMAL(10, 4)",
	"BIT":              "TINYINT(1)",
	"CHAR":             "CHAR",
	"NCHAR":            "CHAR",
	"VARCHAR":          "VARCHAR",
	"NVARCHAR":         "VARCHAR",
	"TEXT":             "LONGTEXT",
	"NTEXT":            "LONGTEXT",
	"BINARY":           "BINARY",
	"VARBINARY":        "VARBINARY",
	"IMAGE":            "LONGBLOB",
	"DATE":             "DATE",
	"TIME":             "TIME",
	"DATETIME":         "DATETIME",
	"SMALLDATETIME":    "DATETIME",
	"DATETIME2":        "DATETIME",
	"DATETIMEOFFSET":   "DATETIME",
	"UNIQUEIDENTIFIER": "CHAR(36)",
	"XML":              "LONGTEXT",
	"GEOMETRY":         "GEOMETRY",
	"GEOGRAPHY":        "GEOMETRY",
	"HIERARCHYID":      "VARCHAR(255)",
	"SQL_VARIANT":      "LONGTEXT",
}

var mssqlToSQLite = map[string]string{
	"TINYINT":          "INTEGER",
	"SMALLINT":         "INTEGER",
	"INT":              "INTEGER",
	"BIGINT":           "INTEGER",
	"BIT":              "INTEGER",
	"REAL":             "REAL",
	"FLOAT":            "REAL",
	"DECIMAL":          "REAL",
	"NUMERIC":          "REAL",
	"MONEY":            "REAL",
	"SMALLMONEY":       "REAL",
	"CHAR":             "TEXT",
	"VARCHAR":          "TEXT",
	"NCHAR":            "TEXT",
	"NVARCHAR":         "TEXT",
	"TEXT":             "TEXT",
	"NTEXT":            "TEXT",
	"XML":              "TEXT",
	"UNIQUEIDENTIFIER": "TEXT",
	"HIERARCHYID":      "TEXT",
	"SQL_VARIANT":      "TEXT",
	"BINARY":           "BLOB",
	"VARBINARY":        "BLOB",
	"IMAGE":            "BLOB",
	"DATE":             "TEXT",
	"TIME":             "TEXT",
	"DATETIME":         "TEXT",
	"SMALLDATETIME":    "TEXT",
	"DATETIME2":        "TEXT",
	"DATETIMEOFFSET":   "TEXT",
	"GEOMETRY":         "TEXT",
	"GEOGRAPHY":        "TEXT",
}
