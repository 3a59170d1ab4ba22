package ir

// FieldType — тип поля модели. Список закрытый: всё, что не отсюда,
// отсекается валидатором до генерации.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeText    FieldType = "text"
	TypeNumber  FieldType = "number"
	TypeInteger FieldType = "integer"
	TypeFloat   FieldType = "float"
	TypeDecimal FieldType = "decimal"
	TypeBoolean FieldType = "boolean"
	TypeDate    FieldType = "date"
	TypeEmail   FieldType = "email"
	TypeURL     FieldType = "url"
	TypeUUID    FieldType = "uuid"
	TypeJSON    FieldType = "json"
)

// Known сообщает, входит ли тип в поддерживаемый список.
func (t FieldType) Known() bool {
	switch t {
	case TypeString, TypeText, TypeNumber, TypeInteger, TypeFloat, TypeDecimal,
		TypeBoolean, TypeDate, TypeEmail, TypeURL, TypeUUID, TypeJSON:
		return true
	}
	return false
}

// ValidationRule — одно декларативное правило валидации поля.
// Порядок правил в Field.Validations значим и сохраняется при генерации.
type ValidationRule struct {
	Type    string `json:"type"` // min | max | minLength | maxLength | pattern
	Value   any    `json:"value"`
	Message string `json:"message,omitempty"`
}

// Field описывает поле модели
type Field struct {
	Name        string           `json:"name"`
	Type        FieldType        `json:"type"`
	Required    bool             `json:"required,omitempty"`
	Unique      bool             `json:"unique,omitempty"`
	Default     string           `json:"default,omitempty"`
	Validations []ValidationRule `json:"validations,omitempty"`
	Description string           `json:"description,omitempty"`
}

// RelationType — вид связи между моделями
type RelationType string

const (
	OneToOne   RelationType = "one-to-one"
	OneToMany  RelationType = "one-to-many"
	ManyToMany RelationType = "many-to-many"
)

// Known сообщает, входит ли вид связи в поддерживаемый список.
func (t RelationType) Known() bool {
	switch t {
	case OneToOne, OneToMany, ManyToMany:
		return true
	}
	return false
}

// Relationship — направленная связь source → target.
// Поля source/target опциональны: пустое значение трактуется как "id".
type Relationship struct {
	Type          RelationType `json:"type"`
	SourceModel   string       `json:"sourceModel"`
	TargetModel   string       `json:"targetModel"`
	SourceField   string       `json:"sourceField,omitempty"`
	TargetField   string       `json:"targetField,omitempty"`
	CascadeDelete bool         `json:"cascadeDelete,omitempty"`
}

// Model — одна сущность предметной области. Создаётся внешним редактором,
// для конвейера read-only.
type Model struct {
	Name          string         `json:"name"`
	Fields        []Field        `json:"fields"`
	Relationships []Relationship `json:"relationships,omitempty"`
	TableName     string         `json:"tableName,omitempty"` // переопределение имени таблицы
	Timestamps    bool           `json:"timestamps,omitempty"`
	SoftDelete    bool           `json:"softDelete,omitempty"`
	Description   string         `json:"description,omitempty"`
}

// FieldByName ищет поле по имени (точное совпадение).
func (m *Model) FieldByName(name string) (Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// ModelByName ищет модель по имени в наборе.
func ModelByName(models []Model, name string) (*Model, bool) {
	for i := range models {
		if models[i].Name == name {
			return &models[i], true
		}
	}
	return nil, false
}
