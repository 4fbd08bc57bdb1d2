package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldOperation    = "operation"
	FieldError        = "error"
	FieldPath         = "path"
	FieldBackend      = "backend"
	FieldVersion      = "schema_version"
	FieldSeedMode     = "seed_mode"
	FieldID           = "id"
	FieldType         = "type"
	FieldCategory     = "category"
	FieldAmount       = "amount"
	FieldDurationMs   = "duration_ms"
	FieldSettingKey   = "setting_key"
	FieldCount        = "count"
	FieldYear         = "year"
	FieldTransaction  = "transactions"
	FieldSubscription = "subscriptions"
	FieldBudgets      = "budgets"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentStorage = "storage"
	ComponentMigrate = "migrate"
	ComponentSeed    = "seed"
	ComponentState   = "state"
	ComponentBackend = "backend"
	ComponentConfig  = "config"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpSeed     = "seed"
	OpReset    = "reset"
	OpMigrate  = "migrate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds the error text; a nil error adds nothing.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithID(id string) LogFields {
	f[FieldID] = id
	return f
}

// WithTransaction adds the identifying fields of a transaction.
func (f LogFields) WithTransaction(id, txType, category, amount string) LogFields {
	f[FieldID] = id
	f[FieldType] = txType
	f[FieldCategory] = category
	f[FieldAmount] = amount
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
