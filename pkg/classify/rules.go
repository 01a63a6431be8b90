package classify

import (
	"strings"

	"github.com/taigrr/roomfolio/pkg/math3d"
	"github.com/taigrr/roomfolio/pkg/scene"
)

// Group is an independent rule chain. Every group is evaluated for every
// mesh node; within a group the first matching rule wins.
type Group int

const (
	GroupWhiteboard Group = iota
	GroupLink
	GroupCar
	GroupFan
	GroupNotes
	GroupPlushie
	GroupMarker
	GroupChair
	GroupMaterial
)

// Rule maps a node name pattern to the bookkeeping applied to the node.
type Rule struct {
	Group Group
	Name  string
	Match func(name string) bool
	Apply func(c *classifier, n *scene.Node)
}

func contains(sub string) func(string) bool {
	return func(name string) bool { return strings.Contains(name, sub) }
}

func always(string) bool { return true }

// Rules is the ordered classification table.
var Rules = []Rule{
	{GroupWhiteboard, "whiteboard pointer", contains("whiteboard_raycaster_pointer"), (*classifier).bindPreferred},
	{GroupWhiteboard, "whiteboard fallback", func(name string) bool {
		return strings.Contains(name, "whiteboard") && !strings.Contains(name, "raycaster")
	}, (*classifier).bindFallback},

	linkRule("linkedin", "linkedin"),
	linkRule("github", "github"),
	linkRule("Threejs", "Threejs"),
	linkRule("Luffy", "Luffy"),
	{GroupLink, "Music_Eighth", contains("Music_Eighth"), (*classifier).music},
	linkRule("CV_Seven", "CV"),
	linkRule("Project1_Seven", "Project1"),
	linkRule("Project2_Seven", "Project2"),
	linkRule("Project3_Seven", "Project3"),

	{GroupCar, "car", contains("car"), (*classifier).car},

	{GroupFan, "fan", contains("fan"), (*classifier).fan},

	notesRule("notes", func(name string) bool {
		if !strings.Contains(name, "notes_First") {
			return false
		}
		for _, s := range []string{"001", "002", "003", "004", "005"} {
			if strings.Contains(name, s) {
				return false
			}
		}
		return true
	}, math3d.V3(0, 3, 0)),
	notesRule("notes_001", func(name string) bool {
		return strings.Contains(name, "no1tes") || strings.Contains(name, "notes_First001")
	}, math3d.V3(3, 3, 0)),
	notesRule("notes_002", contains("no2tes"), math3d.V3(0, 7, 7)),
	notesRule("notes_003", contains("no3tes"), math3d.V3(0, -7, -7)),
	notesRule("notes_004", contains("no4tes"), math3d.V3(7, -7, 7)),
	notesRule("notes_005", contains("no5tes"), math3d.V3(25, 0, 11)),

	plushieRule("plushie_1", "plushie1"),
	plushieRule("plushie_2", "plushie2"),
	plushieRule("headset", "headset"),

	{GroupMarker, "marker", func(name string) bool {
		return strings.HasPrefix(name, "marker_")
	}, (*classifier).marker},

	{GroupChair, "chair", contains("chair"), (*classifier).chair},
	{GroupChair, "partokurchi", contains("partokurchi"), (*classifier).altChair},

	{GroupMaterial, "Glass", contains("Glass"), (*classifier).glass},
	{GroupMaterial, "Screen_2", contains("Screen_2"), (*classifier).screen2},
	{GroupMaterial, "Screen_1", contains("Screen_1"), (*classifier).screen1},
	{GroupMaterial, "whiteboard target", contains("whiteboard_raycaster_pointer"), (*classifier).zoomable},
	{GroupMaterial, "atlas", always, (*classifier).atlas},
}

func linkRule(pattern, key string) Rule {
	return Rule{GroupLink, pattern, contains(pattern), func(c *classifier, n *scene.Node) {
		c.link(n, key)
	}}
}

func notesRule(key string, match func(string) bool, offset math3d.Vec3) Rule {
	return Rule{GroupNotes, key, match, func(c *classifier, n *scene.Node) {
		c.notes(n, key, offset)
	}}
}

func plushieRule(pattern, key string) Rule {
	return Rule{GroupPlushie, pattern, contains(pattern), func(c *classifier, n *scene.Node) {
		c.plushie(n, key)
	}}
}

// Match returns the rules that apply to name, at most one per group. The
// atlas catch-all is included whenever no other material rule matched.
func Match(name string) []Rule {
	var out []Rule
	matched := make(map[Group]bool)
	for _, r := range Rules {
		if matched[r.Group] || !r.Match(name) {
			continue
		}
		matched[r.Group] = true
		out = append(out, r)
	}
	return out
}
