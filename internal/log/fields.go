package log

// Common field names for structured logging.
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldCategory    = "category"
	FieldExpenseID   = "expense_id"
	FieldAmountCents = "amount_cents"
	FieldCount       = "count"
)

// Components defines standard component names.
const (
	ComponentApp        = "app"
	ComponentStore      = "store"
	ComponentRepository = "repository"
	ComponentController = "controller"
	ComponentCLI        = "cli"
)

// Operations defines standard operation names.
const (
	OpFetch          = "fetch"
	OpAddExpense     = "add_expense"
	OpDeleteExpense  = "delete_expense"
	OpAddCategory    = "add_category"
	OpDeleteCategory = "delete_category"
	OpNotify         = "notify"
	OpValidate       = "validate"
)
