package assessor

import "fmt"

// Level is the coarse severity bucket derived from the clamped score.
type Level string

const (
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

// Score boundaries for the severity buckets.
const (
	highThreshold   = 70
	mediumThreshold = 40
	maxScore        = 100
)

// Result is what a scan produces: the clamped score, its severity bucket and
// the ordered findings, each carrying its weight contribution inline.
type Result struct {
	Score  int      `json:"score"`
	Level  Level    `json:"level"`
	Issues []string `json:"issues"`
}

// rule is one heuristic: a trigger predicate over the feature vector, a fixed
// weight and a human-readable label. A rule fires at most once per scan;
// counts gate the trigger but never scale the weight.
type rule struct {
	name    string
	weight  int
	label   string
	trigger func(*FeatureVector) bool
}

// scoreRules is the single declaration point for the heuristics. Slice order
// is the evaluation order and therefore the order findings appear in Issues,
// so new rules must be inserted where their findings should surface.
var scoreRules = []rule{
	{"mixedContent", 25, "Mixed content on HTTPS",
		func(f *FeatureVector) bool { return f.MixedContent }},
	{"metaRefresh", 10, "Meta refresh redirect",
		func(f *FeatureVector) bool { return f.MetaRefresh }},
	{"manyInlineHandlers", 10, "Many inline event handlers",
		func(f *FeatureVector) bool { return f.InlineHandlers > 20 }},
	{"suspiciousInlineJS", 20, "Suspicious inline JS (eval/new Function/atob)",
		func(f *FeatureVector) bool { return f.SuspiciousInlineJS > 0 }},
	{"dataURIScripts", 10, "Data-URI scripts",
		func(f *FeatureVector) bool { return f.DataURIScripts > 0 }},
	{"shortenerLinks", 15, "Multiple shortener links",
		func(f *FeatureVector) bool { return f.ShortenerLinks > 3 }},
	{"ipLinks", 10, "Links to raw IPs",
		func(f *FeatureVector) bool { return f.IPLinks > 0 }},
	{"suspiciousTLDs", 10, "Suspicious TLDs used",
		func(f *FeatureVector) bool { return f.SuspiciousTLDs > 0 }},
	{"execDownloads", 20, "Executable/archived downloads present",
		func(f *FeatureVector) bool { return len(f.ExecDownloads) > 0 }},
	{"formsToHTTP", 20, "Forms submit to HTTP",
		func(f *FeatureVector) bool { return f.FormsToHTTP > 0 }},
	{"hiddenIframes", 10, "Hidden/zero-size iframes",
		func(f *FeatureVector) bool { return f.HiddenIframes > 0 }},
	{"thirdPartyScripts", 10, "High number of third-party scripts",
		func(f *FeatureVector) bool { return f.ThirdPartyScripts > 10 }},
	{"onBeforeUnload", 10, "onbeforeunload trap",
		func(f *FeatureVector) bool { return f.OnBeforeUnload }},
	{"fingerprintingAPIs", 10, "Fingerprinting APIs present",
		func(f *FeatureVector) bool { return f.FingerprintingAPIs > 0 }},
	{"base64InLinks", 10, "Base64 found in links",
		func(f *FeatureVector) bool { return f.Base64InLinks > 0 }},
}

// Score maps a feature vector to a Result. It is a pure function: identical
// vectors always produce identical results, including issue order.
func Score(f *FeatureVector) *Result {
	res := &Result{Issues: []string{}}
	if f == nil {
		f = NewFeatureVector()
	}

	total := 0
	for _, r := range scoreRules {
		if !r.trigger(f) {
			continue
		}
		total += r.weight
		res.Issues = append(res.Issues, fmt.Sprintf("%s (+%d)", r.label, r.weight))
	}

	// Literal clamp, not a renormalization.
	if total > maxScore {
		total = maxScore
	}
	res.Score = total

	switch {
	case total >= highThreshold:
		res.Level = LevelHigh
	case total >= mediumThreshold:
		res.Level = LevelMedium
	default:
		res.Level = LevelLow
	}

	return res
}
