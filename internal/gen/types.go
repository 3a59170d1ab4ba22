package gen

import (
	"fmt"

	"zodchiy/internal/ir"
)

// Таблицы соответствия "тип поля → целевой тип". Все слои эмиссии (интерфейсы,
// SQL, валидаторы, тесты) ходят в одни и те же таблицы — согласованность между
// слоями обеспечивается конструкцией, а не дисциплиной вызывающих.

// tsTypes: тип поля → тип TypeScript.
var tsTypes = map[ir.FieldType]string{
	ir.TypeString:  "string",
	ir.TypeText:    "string",
	ir.TypeNumber:  "number",
	ir.TypeInteger: "number",
	ir.TypeFloat:   "number",
	ir.TypeDecimal: "number",
	ir.TypeBoolean: "boolean",
	ir.TypeDate:    "Date",
	ir.TypeEmail:   "string",
	ir.TypeURL:     "string",
	ir.TypeUUID:    "string",
	ir.TypeJSON:    "Record<string, unknown>",
}

// pgColumns: тип поля → колонка PostgreSQL.
var pgColumns = map[ir.FieldType]string{
	ir.TypeString:  "VARCHAR(255)",
	ir.TypeText:    "TEXT",
	ir.TypeNumber:  "NUMERIC",
	ir.TypeInteger: "INTEGER",
	ir.TypeFloat:   "DOUBLE PRECISION",
	ir.TypeDecimal: "DECIMAL(18,2)",
	ir.TypeBoolean: "BOOLEAN",
	ir.TypeDate:    "TIMESTAMP WITH TIME ZONE",
	ir.TypeEmail:   "VARCHAR(255)",
	ir.TypeURL:     "VARCHAR(2048)",
	ir.TypeUUID:    "UUID",
	ir.TypeJSON:    "JSONB",
}

// mysqlColumns: тип поля → колонка MySQL.
var mysqlColumns = map[ir.FieldType]string{
	ir.TypeString:  "VARCHAR(255)",
	ir.TypeText:    "TEXT",
	ir.TypeNumber:  "DECIMAL(18,6)",
	ir.TypeInteger: "INT",
	ir.TypeFloat:   "DOUBLE",
	ir.TypeDecimal: "DECIMAL(18,2)",
	ir.TypeBoolean: "TINYINT(1)",
	ir.TypeDate:    "DATETIME",
	ir.TypeEmail:   "VARCHAR(255)",
	ir.TypeURL:     "VARCHAR(2048)",
	ir.TypeUUID:    "CHAR(36)",
	ir.TypeJSON:    "JSON",
}

// sampleValues: тип поля → литерал для сгенерированных тестов.
var sampleValues = map[ir.FieldType]string{
	ir.TypeString:  `'Sample text'`,
	ir.TypeText:    `'A longer block of sample text for testing.'`,
	ir.TypeNumber:  `100`,
	ir.TypeInteger: `42`,
	ir.TypeFloat:   `3.14`,
	ir.TypeDecimal: `99.99`,
	ir.TypeBoolean: `true`,
	ir.TypeDate:    `new Date().toISOString()`,
	ir.TypeEmail:   `'test@example.com'`,
	ir.TypeURL:     `'https://example.com'`,
	ir.TypeUUID:    `'00000000-0000-4000-8000-000000000000'`,
	ir.TypeJSON:    `{ key: 'value' }`,
}

// validatorChecks: тип поля → цепочка методов express-validator.
var validatorChecks = map[ir.FieldType]string{
	ir.TypeString:  ".isString()",
	ir.TypeText:    ".isString()",
	ir.TypeNumber:  ".isNumeric()",
	ir.TypeInteger: ".isInt()",
	ir.TypeFloat:   ".isFloat()",
	ir.TypeDecimal: ".isDecimal()",
	ir.TypeBoolean: ".isBoolean()",
	ir.TypeDate:    ".isISO8601()",
	ir.TypeEmail:   ".isEmail()",
	ir.TypeURL:     ".isURL()",
	ir.TypeUUID:    ".isUUID()",
	ir.TypeJSON:    ".isObject()",
}

func tsType(t ir.FieldType) string {
	if s, ok := tsTypes[t]; ok {
		return s
	}
	return "unknown"
}

// columnType выбирает таблицу колонок по движку БД.
func columnType(db string, t ir.FieldType) (string, error) {
	var table map[ir.FieldType]string
	switch db {
	case ir.DatabasePostgres:
		table = pgColumns
	case ir.DatabaseMySQL:
		table = mysqlColumns
	default:
		return "", fmt.Errorf("no column mapping for database %q", db)
	}
	col, ok := table[t]
	if !ok {
		return "", fmt.Errorf("no column mapping for field type %q", t)
	}
	return col, nil
}

func sampleValue(t ir.FieldType) string {
	if s, ok := sampleValues[t]; ok {
		return s
	}
	return "null"
}

func validatorCheck(t ir.FieldType) string {
	if s, ok := validatorChecks[t]; ok {
		return s
	}
	return ".exists()"
}
