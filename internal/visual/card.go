package visual

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ashureev/storyweaver/internal/domain"
)

// CaptionLength is the number of prompt characters shown on a card.
const CaptionLength = 18

// Palette is a card colour scheme: three gradient stops and three accents.
type Palette struct {
	Stops   [3]string `json:"stops"`
	Accents [3]string `json:"accents"`
}

// GradientClass renders the stops as a gradient utility class.
func (p Palette) GradientClass() string {
	return gradientClass(p.Stops)
}

var palettes = [...]Palette{
	{Stops: [3]string{"#0f172a", "#1e1b4b", "#312e81"}, Accents: [3]string{"#f472b6", "#c084fc", "#fbbf24"}},
	{Stops: [3]string{"#022c43", "#053f5e", "#115173"}, Accents: [3]string{"#70d6ff", "#ff9770", "#ffd670"}},
	{Stops: [3]string{"#0f0f0f", "#2a2a2a", "#434343"}, Accents: [3]string{"#ff6b6b", "#feca57", "#48dbfb"}},
}

func gradientClass(stops [3]string) string {
	return fmt.Sprintf("from-[%s] via-[%s] to-[%s]", stops[0], stops[1], stops[2])
}

// Circle is one filled orb on a card.
type Circle struct {
	CX      float64 `json:"cx"`
	CY      float64 `json:"cy"`
	R       float64 `json:"r"`
	Fill    string  `json:"fill"`
	Opacity float64 `json:"opacity"`
}

// Card is the procedurally styled visual of one scene.
type Card struct {
	SceneID string    `json:"sceneId"`
	Seed    int       `json:"seed"`
	Palette Palette   `json:"palette"`
	Circles [3]Circle `json:"circles"`
	Path    string    `json:"path"`
	Caption string    `json:"caption"`
}

// SceneCard derives the card for the scene at position index of its thread.
func SceneCard(scene domain.StoryScene, index int) Card {
	if index < 0 {
		index = -index
	}
	palette := palettes[index%len(palettes)]

	seed := Hash(scene.Prompt + scene.ID)
	radiusOne := float64(30 + seed%20)
	radiusTwo := float64(20 + (seed>>2)%15)
	orbitA := Orbit(seed, 37)
	orbitB := Orbit(seed>>1, 61)

	return Card{
		SceneID: scene.ID,
		Seed:    seed,
		Palette: palette,
		Circles: [3]Circle{
			{CX: 160, CY: 90, R: radiusOne, Fill: palette.Accents[0], Opacity: 0.35},
			{CX: 80 + orbitA, CY: 60, R: radiusTwo, Fill: palette.Accents[1], Opacity: 0.5},
			{CX: 200 - orbitB/2, CY: 120, R: radiusTwo / 1.5, Fill: palette.Accents[2], Opacity: 0.4},
		},
		Path: fmt.Sprintf("M %s 140 Q 160 %s, %s 50",
			num(40+orbitB), num(40+orbitA), num(280-orbitA)),
		Caption: caption(scene.Prompt),
	}
}

func caption(prompt string) string {
	r := []rune(prompt)
	if len(r) > CaptionLength {
		r = r[:CaptionLength]
	}
	return strings.ToUpper(string(r))
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
