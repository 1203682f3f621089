// Package pack holds the featured story packs shown on the landing page: ready
// made beats, character sheets and prompt seeds for a continuation.
package pack

import "fmt"

// Beat is one step of a featured scene outline.
type Beat struct {
	Name   string `json:"beat"`
	Detail string `json:"detail"`
}

// CharacterSheet describes a pack character in more depth than a profile.
type CharacterSheet struct {
	Name        string   `json:"name"`
	Age         string   `json:"age"`
	Traits      []string `json:"traits"`
	Look        string   `json:"look"`
	Motivations string   `json:"motivations"`
	Abilities   string   `json:"abilities"`
	Arc         string   `json:"arc"`
}

// StyleRemix reframes the pack in another genre.
type StyleRemix struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// FigureBrief is a concept-art brief.
type FigureBrief struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Plot is a storyline seed with its escalation.
type Plot struct {
	Title      string `json:"title"`
	Logline    string `json:"logline"`
	Escalation string `json:"escalation"`
}

// Backdrop is a background plate with its gradient stops.
type Backdrop struct {
	Name        string    `json:"name"`
	Stops       [3]string `json:"stops"`
	Description string    `json:"description"`
}

// Twist is the pack's hook.
type Twist struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Coordinates string `json:"coordinates"`
}

// LineupColors paints one silhouette of the character lineup.
type LineupColors struct {
	Stops  [3]string `json:"stops"`
	Accent string    `json:"accent"`
	Figure string    `json:"figure"`
}

// Suggestion is a ready-to-use scene prompt derived from a pack.
type Suggestion struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Pack is a complete featured story toolkit.
type Pack struct {
	Title      string           `json:"title"`
	Summary    string           `json:"summary"`
	SceneTitle string           `json:"sceneTitle"`
	Beats      []Beat           `json:"beats"`
	Twist      Twist            `json:"twist"`
	Characters []CharacterSheet `json:"characters"`
	Remixes    []StyleRemix     `json:"remixes"`
	Figures    []FigureBrief    `json:"figures"`
	Plots      []Plot           `json:"plots"`
	Backdrops  []Backdrop       `json:"backdrops"`
}

var lineup = [...]LineupColors{
	{Stops: [3]string{"#0b1120", "#1b1f3b", "#2c365e"}, Accent: "#f472b6", Figure: "#f8fafc"},
	{Stops: [3]string{"#10121f", "#1b2a47", "#264d73"}, Accent: "#34d399", Figure: "#f1f5f9"},
}

// Lineup returns the colours for the i-th lineup figure, cycling the table.
func Lineup(i int) LineupColors {
	if i < 0 {
		i = -i
	}
	return lineup[i%len(lineup)]
}

// Tagline joins the first two traits for the lineup caption.
func (c CharacterSheet) Tagline() string {
	switch len(c.Traits) {
	case 0:
		return ""
	case 1:
		return c.Traits[0]
	default:
		return c.Traits[0] + " · " + c.Traits[1]
	}
}

// Suggestions turns the plots and style remixes into scene prompts.
func (p Pack) Suggestions() []Suggestion {
	out := make([]Suggestion, 0, len(p.Plots)+len(p.Remixes))
	for _, plot := range p.Plots {
		out = append(out, Suggestion{Label: plot.Title, Text: plot.Logline})
	}
	for _, r := range p.Remixes {
		out = append(out, Suggestion{
			Label: r.Label,
			Text:  fmt.Sprintf("Retell the next moment as %s: %s", r.Label, r.Description),
		})
	}
	return out
}

// Clocktower returns the Clocktower Arc toolkit. Each call builds a fresh
// value so callers may modify it.
func Clocktower() Pack {
	return Pack{
		Title:      "Clocktower Arc Toolkit",
		Summary:    "Drop-in beats, character sheets, twist hooks, stylistic remixes, and figure briefs to fast-track a cinematic continuation directly inside StoryWeaver.",
		SceneTitle: "Scene 2 · “Pulsepoint”",
		Beats: []Beat{
			{Name: "Surge", Detail: "Rain lashes stained glass while Aisha steadies herself and Ethan becomes a living conduit for the crystal."},
			{Name: "Crossfire Dialogue", Detail: `Aisha yells "Tell me how to shut it down" as Ethan reveals the clock weights are tied to the ley nodes.`},
			{Name: "The Pull", Detail: "She dives for the counterweight lever while gears swoop overhead like iron guillotines, showering sparks."},
			{Name: "Fractured Silhouette", Detail: "Crystal pulses blue→violet→white, throwing multiple afterimages of Ethan as though timelines are overlapping."},
			{Name: "Cliffhanger", Detail: "Aisha catches Ethan as the tower steadies, only to find Meridian Vault coordinates seared into her palm."},
		},
		Twist: Twist{
			Title:       "Meridian Split",
			Description: "The crystal is a shard of the clocktower core that split Ethan into two timelines. Stabilizing the core means only one Ethan survives, and the Meridian Vault coordinates on Aisha's palm can resurrect or erase anyone tied to the clock.",
			Coordinates: "00:00:00 · Meridian Vault",
		},
		Characters: []CharacterSheet{
			{
				Name:        "Aisha Rahman",
				Age:         "19",
				Traits:      []string{"Loyal", "Improvisational", "Tactile problem-solver"},
				Look:        "Copper skin, rain-slick braids, bomber jacket over urban explorer gear, leather backpack of antique tools.",
				Motivations: "Uncover why kids vanished, protect the city from ley-line instability, and pull Ethan back from the brink.",
				Abilities:   "Empathic resonance with artifacts plus mechanic know-how learned from her archivist mother.",
				Arc:         "From reactive survivor to intentional guardian of time-linked relics.",
			},
			{
				Name:        "Ethan Vale",
				Age:         "20 (chronologically)",
				Traits:      []string{"Cerebral", "Secretive", "Guilt-ridden"},
				Look:        "Mismatched eyes (one glowing), patched trench coat, cracked crystal tethered to his collarbone.",
				Motivations: "Stop the Meridian Echo entity inside the crystal and keep Aisha safe, even if it erases him.",
				Abilities:   "Conduit for ley energy with foresight flashes that cost him his stability.",
				Arc:         "From missing friend to reluctant catalyst fighting identity erosion.",
			},
		},
		Remixes: []StyleRemix{
			{Label: "Romance", Description: "Sync heartbeats with the clock chimes, whisper confessions through the noise, and linger on touch."},
			{Label: "Fantasy", Description: "Treat the tower as a slumbering guardian; the crystal becomes a soulstone shrouded in glyphs."},
			{Label: "Thriller", Description: "Countdown overlays, encrypted warnings on the clock face, paranoia about unseen watchers."},
			{Label: "Dystopian", Description: "Citywide blackout, government drones swarm, Ethan branded as an anomaly on holo-billboards."},
			{Label: "Sci-Fi", Description: "Quantum gyros, HUD ley-line harmonics, Aisha reroutes energy with a wrist rig."},
			{Label: "Anime", Description: "Amplified motion lines, signature attacks (Chrono Sever), orchestral choirs during the climax."},
		},
		Figures: []FigureBrief{
			{Title: "Fig. A: Tower Layout", Description: "Overhead schematic showing gear array, ley nodes under the floor, and the counterweight lever path."},
			{Title: "Fig. B: Crystal Phases", Description: "Color study of the crystal shifting blue→violet→white with timeline echo silhouettes behind Ethan."},
			{Title: "Fig. C: Character Lineup", Description: "Model sheet of Aisha and Ethan with costume notes, props, and posture cues."},
			{Title: "Fig. D: Meridian Vault", Description: "Vault door etched with countdown numerals and two diverging Ethan shadows."},
		},
		Plots: []Plot{
			{
				Title:      "Pulsepoint Heist",
				Logline:    "Aisha must steal the ley-map stored inside the reawakened clocktower before the Meridian Echo stabilizes its new host.",
				Escalation: "Success unlocks a hidden metro tunnel, but exposes Ethan's second timeline self who now hunts them both.",
			},
			{
				Title:      "The Vault of Zeros",
				Logline:    "Coordinates etched into Aisha's palm lead to a crypt that can resurrect anyone the clock erased, at the price of a living memory.",
				Escalation: "Opening it forces Aisha to decide whether to sacrifice her own past or Ethan's remaining humanity.",
			},
			{
				Title:      "Static Crown",
				Logline:    "Government signal-jammers surround the tower, and Ethan must merge with the crystal to broadcast a warning before reality desynchronizes.",
				Escalation: "If he merges, he becomes a disembodied guide; if he doesn't, the city fractures into parallel districts.",
			},
		},
		Backdrops: []Backdrop{
			{Name: "Clock Core", Stops: [3]string{"#05060f", "#1b2350", "#3b2b63"}, Description: "Steel ribs, suspended gears, and violet ley arcs, perfect for tense, high-energy scenes."},
			{Name: "Meridian Alley", Stops: [3]string{"#0f141a", "#183044", "#205c5c"}, Description: "Rain-slick neon cobblestones with holographic posters flickering in a wind tunnel."},
			{Name: "Vault Atrium", Stops: [3]string{"#1d1a2a", "#352d52", "#5f3f74"}, Description: "Circular chamber carved from obsidian with floating numeral sigils orbiting a sealed door."},
		},
	}
}
