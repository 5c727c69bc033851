package catalog

// TopTab is a tab of the home screen
type TopTab int

const (
	TopTabRecommend TopTab = iota
	TopTabCourses
	TopTabPlans
	TopTabRoutes
)

// TopTabInfo contains display information for a home tab
type TopTabInfo struct {
	Tab        TopTab
	Label      string
	KeyBinding rune
}

// AllTopTabs defines the home tabs in display order
var AllTopTabs = []TopTabInfo{
	{Tab: TopTabRecommend, Label: "Recommend", KeyBinding: '1'},
	{Tab: TopTabCourses, Label: "Courses", KeyBinding: '2'},
	{Tab: TopTabPlans, Label: "Plans", KeyBinding: '3'},
	{Tab: TopTabRoutes, Label: "Routes", KeyBinding: '4'},
}

// GetTopTabByKey returns the tab for a given key binding
func GetTopTabByKey(key rune) (TopTab, bool) {
	for _, info := range AllTopTabs {
		if info.KeyBinding == key {
			return info.Tab, true
		}
	}
	return 0, false
}

func (t TopTab) Label() string {
	for _, info := range AllTopTabs {
		if info.Tab == t {
			return info.Label
		}
	}
	return ""
}

// BottomTab is an entry of the bottom navigation bar
type BottomTab int

const (
	BottomTabHome BottomTab = iota
	BottomTabSettings
)

// AllBottomTabs defines the bottom bar in display order
var AllBottomTabs = []BottomTab{BottomTabHome, BottomTabSettings}

func (t BottomTab) Label() string {
	switch t {
	case BottomTabHome:
		return "Home"
	case BottomTabSettings:
		return "Settings"
	}
	return ""
}

// QuickFeature is a shortcut on the Recommend tab
type QuickFeature int

const (
	QuickFindCourses QuickFeature = iota
	QuickRunning
	QuickMoves
	QuickLive
	QuickYoga
	QuickWalking
)

// QuickFeatureInfo contains display information for a shortcut
type QuickFeatureInfo struct {
	Feature    QuickFeature
	Label      string
	KeyBinding rune
}

// AllQuickFeatures defines the shortcut grid in display order
var AllQuickFeatures = []QuickFeatureInfo{
	{Feature: QuickFindCourses, Label: "Find Courses", KeyBinding: 'f'},
	{Feature: QuickRunning, Label: "Running", KeyBinding: 'r'},
	{Feature: QuickMoves, Label: "Moves", KeyBinding: 'm'},
	{Feature: QuickLive, Label: "Live", KeyBinding: 'l'},
	{Feature: QuickYoga, Label: "Yoga", KeyBinding: 'y'},
	{Feature: QuickWalking, Label: "Walking", KeyBinding: 'w'},
}

// GetQuickFeatureByKey returns the shortcut for a given key binding
func GetQuickFeatureByKey(key rune) (QuickFeature, bool) {
	for _, info := range AllQuickFeatures {
		if info.KeyBinding == key {
			return info.Feature, true
		}
	}
	return 0, false
}

func (q QuickFeature) Label() string {
	for _, info := range AllQuickFeatures {
		if info.Feature == q {
			return info.Label
		}
	}
	return ""
}

// Intensity levels offered in settings
var Intensities = []string{"Easy", "Normal", "Hard"}

// ValidIntensity reports whether s is one of Intensities
func ValidIntensity(s string) bool {
	for _, i := range Intensities {
		if i == s {
			return true
		}
	}
	return false
}
