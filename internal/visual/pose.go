package visual

import (
	"strings"
	"unicode"
)

// Pose is the body-language category inferred from scene text.
type Pose string

const (
	PoseDynamic  Pose = "dynamic"
	PoseSentinel Pose = "sentinel"
	PoseStealth  Pose = "stealth"
	PoseReaching Pose = "reaching"
	PoseNeutral  Pose = "neutral"
)

type poseRule struct {
	pose  Pose
	words map[string]struct{}
}

func rule(pose Pose, words ...string) poseRule {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return poseRule{pose: pose, words: set}
}

// poseRules is evaluated in order; the first rule with a matching word wins.
// Third-person forms that read more often as plural nouns are left out so an
// earlier rule cannot claim them: races, charges, guards, shields, stands,
// barricades, shadows, whispers, holds, lifts, hopes.
var poseRules = []poseRule{
	rule(PoseDynamic,
		"run", "runs", "running", "ran",
		"dash", "dashes", "dashing", "dashed",
		"sprint", "sprints", "sprinting", "sprinted",
		"race", "racing", "raced",
		"chase", "chases", "chasing", "chased",
		"charge", "charging", "charged"),
	rule(PoseSentinel,
		"guard", "guarding", "guarded",
		"shield", "shielding", "shielded",
		"defend", "defends", "defending", "defended",
		"stand", "standing", "stood",
		"protect", "protects", "protecting", "protected",
		"barricade", "barricading", "barricaded"),
	rule(PoseStealth,
		"stealth", "stealthy", "stealthily",
		"sneak", "sneaks", "sneaking", "sneaked", "snuck",
		"shadow", "shadowed", "shadowing",
		"creep", "creeps", "creeping", "crept",
		"whisper", "whispering", "whispered",
		"hide", "hides", "hiding", "hid", "hidden",
		"silent", "silently",
		"infiltrate", "infiltrates", "infiltrating", "infiltrated"),
	rule(PoseReaching,
		"reach", "reaches", "reaching", "reached",
		"grasp", "grasps", "grasping", "grasped",
		"hold", "holding", "held",
		"rescue", "rescues", "rescuing", "rescued",
		"embrace", "embraces", "embracing", "embraced",
		"lift", "lifting", "lifted",
		"soar", "soars", "soaring", "soared",
		"ascend", "ascends", "ascending", "ascended",
		"hope", "hoping", "hoped"),
}

// ClassifyPose returns the pose of the first rule that matches a word of text,
// or PoseNeutral.
func ClassifyPose(text string) Pose {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	for _, r := range poseRules {
		for _, w := range words {
			if _, ok := r.words[w]; ok {
				return r.pose
			}
		}
	}
	return PoseNeutral
}

// PosePreset is the static silhouette drawn for a pose.
type PosePreset struct {
	Label      string    `json:"label"`
	Mood       string    `json:"mood"`
	Background [3]string `json:"background"`
	Accent     string    `json:"accent"`
	Core       string    `json:"core"`
	Arms       [2]string `json:"arms"`
	Legs       [2]string `json:"legs"`
}

// BackgroundClass renders the background stops as a gradient utility class.
func (p PosePreset) BackgroundClass() string {
	return gradientClass(p.Background)
}

const coreColor = "#1e293b"

var presets = map[Pose]PosePreset{
	PoseDynamic: {
		Label:      "Momentum Capture",
		Mood:       "Forward motion with charged pursuit energy.",
		Background: [3]string{"#030712", "#0f172a", "#1f2937"},
		Accent:     "#f97316",
		Core:       coreColor,
		Arms:       [2]string{"M110 100 Q130 85 155 78", "M110 102 Q90 88 68 85"},
		Legs:       [2]string{"M110 155 Q125 175 145 210", "M110 155 Q95 168 82 198"},
	},
	PoseSentinel: {
		Label:      "Guarded Resolve",
		Mood:       "Planted stance with defensive poise.",
		Background: [3]string{"#020617", "#111827", "#1e1b4b"},
		Accent:     "#38bdf8",
		Core:       coreColor,
		Arms:       [2]string{"M100 115 Q92 120 78 132", "M120 115 Q128 118 145 128"},
		Legs:       [2]string{"M110 155 L125 208", "M110 155 L95 208"},
	},
	PoseStealth: {
		Label:      "Shadow Creep",
		Mood:       "Low center, asynchronous limbs ready to strike quietly.",
		Background: [3]string{"#050505", "#1c1c1c", "#2f2e41"},
		Accent:     "#a3e635",
		Core:       coreColor,
		Arms:       [2]string{"M108 110 Q120 108 142 115", "M112 112 Q98 118 75 135"},
		Legs:       [2]string{"M110 152 Q118 165 138 188", "M110 154 Q102 172 88 205"},
	},
	PoseReaching: {
		Label:      "Skyward Reach",
		Mood:       "Extended line seeking connection or rescue.",
		Background: [3]string{"#02101f", "#06213c", "#0f3d5c"},
		Accent:     "#c084fc",
		Core:       coreColor,
		Arms:       [2]string{"M108 95 Q125 70 142 42", "M112 97 Q95 75 78 55"},
		Legs:       [2]string{"M108 155 L132 208", "M112 155 L92 205"},
	},
	PoseNeutral: {
		Label:      "Still Focus",
		Mood:       "Centered breath before the next move.",
		Background: [3]string{"#0b1120", "#111c33", "#1f2a44"},
		Accent:     "#f472b6",
		Core:       coreColor,
		Arms:       [2]string{"M98 115 Q82 125 58 142", "M122 115 Q138 125 162 142"},
		Legs:       [2]string{"M110 155 L88 208", "M110 155 L132 208"},
	},
}

// Preset looks up the silhouette for pose. Unknown poses get the neutral preset.
func Preset(pose Pose) PosePreset {
	if p, ok := presets[pose]; ok {
		return p
	}
	return presets[PoseNeutral]
}
