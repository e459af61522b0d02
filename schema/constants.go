package schema

// Custom string types for type safety.
type (
	// ServiceLevel is a user-facing air-traffic-service level.
	ServiceLevel string

	// ServiceGroup is an internal adjustment bucket such as "IFR" or "ATC-I".
	ServiceGroup string

	// Discipline is the flight-rules regime an adjustment table belongs to.
	Discipline string

	// RiskLevel is the qualitative label derived from the base risk score.
	RiskLevel string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend holding score tables.
	DatabaseBackend string
)

// All service levels, in presentation order.
const (
	Unattended ServiceLevel = "Unattended"
	UnicomAWIB ServiceLevel = "UNICOM/AWIB"
	AFIS       ServiceLevel = "AFIS"
	ATC        ServiceLevel = "ATC"
)

// All disciplines supported.
const (
	IFR Discipline = "IFR"
	VFR Discipline = "VFR"
)

// All service groups found in the adjustment tables.
const (
	IFRBaseline ServiceGroup = "IFR"
	UnicomI     ServiceGroup = "UNICOM-I"
	AFISI       ServiceGroup = "AFIS-I"
	ATCI        ServiceGroup = "ATC-I"

	VFRBaseline ServiceGroup = "VFR"
	UnicomV     ServiceGroup = "UNICOM-V"
	AFISV       ServiceGroup = "AFIS-V"
	ATCV        ServiceGroup = "ATC-V"
)

// All risk levels, ordered from lowest to highest.
const (
	LowRisk      RiskLevel = "Low"
	ModerateRisk RiskLevel = "Moderate"
	HighRisk     RiskLevel = "High"
	VeryHighRisk RiskLevel = "Very High"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	XLSXOut    OutputMode = "xlsx"
	ParquetOut OutputMode = "parquet"
)

// All table backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default: tables come from YAML files
)

// AllServiceLevels lists the service levels in the order results are reported.
var AllServiceLevels = []ServiceLevel{Unattended, UnicomAWIB, AFIS, ATC}

// AllDisciplines lists both flight-rules regimes.
var AllDisciplines = []Discipline{IFR, VFR}

// disciplineGroups maps each discipline to its groups, baseline first.
var disciplineGroups = map[Discipline][]ServiceGroup{
	IFR: {IFRBaseline, UnicomI, AFISI, ATCI},
	VFR: {VFRBaseline, UnicomV, AFISV, ATCV},
}

// levelGroups maps each service level to its IFR and VFR groups.
var levelGroups = map[ServiceLevel][2]ServiceGroup{
	Unattended: {IFRBaseline, VFRBaseline},
	UnicomAWIB: {UnicomI, UnicomV},
	AFIS:       {AFISI, AFISV},
	ATC:        {ATCI, ATCV},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	XLSXOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid table backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// GroupsFor returns the groups of a discipline, baseline first.
// An unknown discipline yields nil.
func GroupsFor(d Discipline) []ServiceGroup {
	groups := disciplineGroups[d]
	out := make([]ServiceGroup, len(groups))
	copy(out, groups)
	return out
}

// GroupFor returns the adjustment group a service level reads for a discipline.
func GroupFor(level ServiceLevel, d Discipline) (ServiceGroup, bool) {
	pair, ok := levelGroups[level]
	if !ok {
		return "", false
	}
	switch d {
	case IFR:
		return pair[0], true
	case VFR:
		return pair[1], true
	default:
		return "", false
	}
}

// ParseServiceLevel matches a service level case-insensitively. "UNICOM" and "AWIB"
// are accepted as shorthands for UNICOM/AWIB.
func ParseServiceLevel(s string) (ServiceLevel, bool) {
	switch normalizeLevel(s) {
	case "unattended":
		return Unattended, true
	case "unicom/awib", "unicom", "awib":
		return UnicomAWIB, true
	case "afis":
		return AFIS, true
	case "atc":
		return ATC, true
	default:
		return "", false
	}
}

// Calibration constants of the weighted index.
const (
	// NormalizationConstant scales a blended sub-total onto the published index range.
	NormalizationConstant = 0.145455

	// DefaultIFRRatio is the IFR share assumed when no movements are recorded.
	DefaultIFRRatio = 0.25
)
