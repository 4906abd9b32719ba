package provision

// The backend's metadata tables where custom schema is registered.
const (
	tablesMetaTable  = "UserTablesMD"
	fieldsMetaTable  = "UserFieldsMD"
	objectsMetaTable = "UserObjectsMD"
)

// TableDef declares one custom table.
type TableDef struct {
	Name        string
	Description string
	Category    string
}

// FieldDef declares one custom field on a table.
type FieldDef struct {
	Table       string
	Name        string
	Type        string
	Size        int
	Description string
}

// Field storage types understood by the backend.
const (
	FieldTypeAlpha   = "db_Alpha"
	FieldTypeDate    = "db_Date"
	FieldTypeNumeric = "db_Numeric"
	FieldTypeFloat   = "db_Float"
	FieldTypeMemo    = "db_Memo"
)

// ObjectDef declares one composite object. The primary object binds several
// child tables into one logical unit; secondary objects stand alone.
type ObjectDef struct {
	Code        string
	Name        string
	Category    string
	Table       string
	ChildTables []string
}

// SeedUser is the administrative account provisioned alongside the schema,
// keyed by its email address.
type SeedUser struct {
	Code      string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// Target is the declared end state the provisioner reconciles the backend
// toward. It is constructed once and never mutated at runtime.
type Target struct {
	Tables  []TableDef
	Fields  []FieldDef
	Primary ObjectDef
	Objects []ObjectDef
	Seed    SeedUser
}

// DefaultTarget returns the schema the gateway requires before normal use.
func DefaultTarget() Target {
	return Target{
		Tables: []TableDef{
			{Name: "AX_ADT_USERS", Description: "Application users", Category: "bott_NoObject"},
			{Name: "AX_ADT_DEPARTMENTS", Description: "Departments", Category: "bott_NoObject"},
			{Name: "AX_ADT_ACTIVITIES", Description: "Activity types", Category: "bott_NoObject"},
			{Name: "AX_ADT_PROJECTS", Description: "Projects", Category: "bott_NoObject"},
			{Name: "AX_ADT_TIMESHEETS", Description: "Timesheet entries", Category: "bott_NoObject"},
		},
		Fields: []FieldDef{
			{Table: "AX_ADT_USERS", Name: "Email", Type: FieldTypeAlpha, Size: 120, Description: "Email address"},
			{Table: "AX_ADT_USERS", Name: "FirstName", Type: FieldTypeAlpha, Size: 60, Description: "First name"},
			{Table: "AX_ADT_USERS", Name: "LastName", Type: FieldTypeAlpha, Size: 60, Description: "Last name"},
			{Table: "AX_ADT_USERS", Name: "Password", Type: FieldTypeAlpha, Size: 120, Description: "Password hash"},
			{Table: "AX_ADT_USERS", Name: "Role", Type: FieldTypeAlpha, Size: 20, Description: "Application role"},
			{Table: "AX_ADT_USERS", Name: "Active", Type: FieldTypeAlpha, Size: 1, Description: "Active flag"},

			{Table: "AX_ADT_DEPARTMENTS", Name: "Name", Type: FieldTypeAlpha, Size: 100, Description: "Department name"},

			{Table: "AX_ADT_ACTIVITIES", Name: "Name", Type: FieldTypeAlpha, Size: 100, Description: "Activity name"},

			{Table: "AX_ADT_PROJECTS", Name: "Name", Type: FieldTypeAlpha, Size: 120, Description: "Project name"},
			{Table: "AX_ADT_PROJECTS", Name: "Description", Type: FieldTypeMemo, Description: "Project description"},
			{Table: "AX_ADT_PROJECTS", Name: "Department", Type: FieldTypeAlpha, Size: 20, Description: "Owning department"},
			{Table: "AX_ADT_PROJECTS", Name: "StartDate", Type: FieldTypeDate, Description: "Start date"},
			{Table: "AX_ADT_PROJECTS", Name: "EndDate", Type: FieldTypeDate, Description: "End date"},
			{Table: "AX_ADT_PROJECTS", Name: "Active", Type: FieldTypeAlpha, Size: 1, Description: "Active flag"},

			{Table: "AX_ADT_TIMESHEETS", Name: "UserCode", Type: FieldTypeAlpha, Size: 20, Description: "Owning user"},
			{Table: "AX_ADT_TIMESHEETS", Name: "ProjectCode", Type: FieldTypeAlpha, Size: 20, Description: "Project"},
			{Table: "AX_ADT_TIMESHEETS", Name: "ActivityCode", Type: FieldTypeAlpha, Size: 20, Description: "Activity type"},
			{Table: "AX_ADT_TIMESHEETS", Name: "Date", Type: FieldTypeDate, Description: "Work date"},
			{Table: "AX_ADT_TIMESHEETS", Name: "Hours", Type: FieldTypeFloat, Description: "Hours worked"},
			{Table: "AX_ADT_TIMESHEETS", Name: "Notes", Type: FieldTypeMemo, Description: "Notes"},
			{Table: "AX_ADT_TIMESHEETS", Name: "Status", Type: FieldTypeAlpha, Size: 20, Description: "Workflow status"},
		},
		Primary: ObjectDef{
			Code:        "ADT_TIMESHEET",
			Name:        "Timesheet",
			Category:    "boud_MasterData",
			Table:       "AX_ADT_TIMESHEETS",
			ChildTables: []string{"AX_ADT_PROJECTS", "AX_ADT_ACTIVITIES"},
		},
		Objects: []ObjectDef{
			{Code: "ADT_USER", Name: "Application User", Category: "boud_MasterData", Table: "AX_ADT_USERS"},
			{Code: "ADT_PROJECT", Name: "Project", Category: "boud_MasterData", Table: "AX_ADT_PROJECTS"},
			{Code: "ADT_DEPARTMENT", Name: "Department", Category: "boud_MasterData", Table: "AX_ADT_DEPARTMENTS"},
		},
		Seed: SeedUser{
			Code:      "ADMIN",
			Email:     "admin@adt.local",
			Password:  "Admin123!",
			FirstName: "System",
			LastName:  "Administrator",
			Role:      "ADMIN",
		},
	}
}
