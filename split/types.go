package split

import (
	"errors"

	"github.com/veslind/stratify/burden"
	"github.com/veslind/stratify/prior"
)

// Sentinel errors returned by the splitters. All of these are
// recoverable at the pipeline level: the country falls back to the
// regional imputer.
var (
	// ErrNoVRData indicates the VR splitter was invoked for a country
	// without any vital-registration rows.
	ErrNoVRData = errors.New("split: no vital-registration data")

	// ErrNoNotifications indicates the CFR splitter found no usable
	// notification counts for a country.
	ErrNoNotifications = errors.New("split: no notification data")

	// ErrNoPrior indicates the country has no child prior configured;
	// prior correction cannot run.
	ErrNoPrior = errors.New("split: no child prior for country")
)

// IncidenceFloor guards the cdr and diagnostic-CFR denominators against
// zero per-stratum incidence.
const IncidenceFloor = 1e-9

// zScore converts a standard error into a 95% confidence half-width.
const zScore = 1.959964

// Options tunes both splitters.
//
//	PriorStrength — weight w of the child prior blend (§prior). Default 1.0.
//	WeightFloor   — floor applied to near-zero normalized weights before
//	                renormalization, avoiding degenerate strata. Default 1e-3.
//	DeathFloor    — clamp for registered death counts, so near-zero cells
//	                cannot dominate ratios. Default 1.0.
//	CFRWarnLimit  — diagnostic case-fatality ratio above which a
//	                data-quality warning is emitted. Default 0.60.
type Options struct {
	PriorStrength float64
	WeightFloor   float64
	DeathFloor    float64
	CFRWarnLimit  float64
}

// DefaultOptions returns the standard tuning used by the pipeline.
func DefaultOptions() Options {
	return Options{
		PriorStrength: prior.DefaultStrength,
		WeightFloor:   1e-3,
		DeathFloor:    1.0,
		CFRWarnLimit:  0.60,
	}
}

// Splitter disaggregates one country's aggregate estimates into
// stratified rows. Implementations are stateless beyond their options
// and safe for concurrent use across countries.
type Splitter interface {
	// Method tags the rows this splitter produces.
	Method() burden.Method

	// Split returns stratified rows for every estimate year of the
	// country, plus any data-quality warnings. A returned error means the
	// method is unusable for this country (recoverable via imputation).
	Split(ds *burden.Dataset, country string) ([]burden.Stratified, []burden.Warning, error)
}

// Selector routes each country to its splitter, from a membership set
// precomputed once. Routing is pure: the same coverage set always yields
// the same method for a country.
type Selector struct {
	vrCovered map[string]bool
	vr        Splitter
	cfr       Splitter
}

// NewSelector precomputes VR coverage for every country in the dataset
// and instantiates both splitters with the given options.
func NewSelector(ds *burden.Dataset, opts Options) *Selector {
	covered := make(map[string]bool)
	var c string
	for _, c = range ds.Countries() {
		covered[c] = ds.HasVR(c)
	}
	return &Selector{
		vrCovered: covered,
		vr:        &VRSplitter{opts: opts},
		cfr:       &CFRSplitter{opts: opts},
	}
}

// For returns the splitter for a country: VR when the country is in the
// vital-registration coverage set, CFR otherwise.
func (sel *Selector) For(country string) Splitter {
	if sel.vrCovered[country] {
		return sel.vr
	}
	return sel.cfr
}
