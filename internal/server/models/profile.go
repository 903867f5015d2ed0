package models

// Defaults applied to newly provisioned dependent profiles.
const (
	DefaultNativeLang           = "ru"
	DefaultTargetLang           = "en"
	DefaultMaxSessionMinutes    = 30
	DefaultBreakIntervalMinutes = 15
)

// GuardianProfile is the one-to-one extension of a guardian account.
// Settings holds a free-form JSON document.
type GuardianProfile struct {
	AccountID string
	Settings  string
}

// DependentProfile is the one-to-one extension of a dependent account,
// holding the learner's locale pair and study-session limits.
type DependentProfile struct {
	AccountID            string
	NativeLang           string
	TargetLang           string
	MaxSessionMinutes    int
	BreakIntervalMinutes int
}

// NewDependentProfile returns a profile with the default locale pair and
// session settings.
func NewDependentProfile() DependentProfile {
	return DependentProfile{
		NativeLang:           DefaultNativeLang,
		TargetLang:           DefaultTargetLang,
		MaxSessionMinutes:    DefaultMaxSessionMinutes,
		BreakIntervalMinutes: DefaultBreakIntervalMinutes,
	}
}

// Wallet is the one-to-one reward balance of a dependent account.
// Balance starts at zero; transactions are owned by another service.
type Wallet struct {
	AccountID string
	Balance   int64
}
