package interact

import (
	"strings"

	"go.uber.org/zap"

	"github.com/taigrr/roomfolio/pkg/scene"
	"github.com/taigrr/roomfolio/pkg/zoom"
)

// Link is an external destination opened by clicking a node whose name
// contains Key, ignoring case.
type Link struct {
	Key string
	URL string
}

// DefaultLinks is the ordered link table. Earlier keys win.
var DefaultLinks = []Link{
	{"linkedin", "https://www.linkedin.com/in/druv-nagpal/"},
	{"github", "https://github.com/Druv-4182122"},
	{"Threejs", "https://threejs-journey.com/certificate/view/15155"},
	{"Luffy", "https://drive.google.com/file/d/1PIZh0LnVV4e7hdPr55YhotOcyEIZcGMg/view"},
	{"CV", "https://drive.google.com/file/d/1HbB7Vw9rcS78OhJ0H83WRjdtNHk6ZAZ6/view?usp=sharing"},
	{"Project1", "https://sunnyday-beta.vercel.app/"},
	{"Project2", "https://funhouse-alpha.vercel.app/"},
	{"Project3", "https://hauntedscene.vercel.app/"},
}

// LinkOpener opens an external URL.
type LinkOpener interface {
	Open(url string) error
}

// ClickRule handles a clicked node when it matches. Rules are consulted
// in order and the first match consumes the click.
type ClickRule struct {
	Name   string
	Match  func(m *Manager, n *scene.Node) bool
	Handle func(m *Manager, n *scene.Node)
}

// ClickRules is the click priority order.
var ClickRules = []ClickRule{
	{
		Name:   "monitor button",
		Match:  func(m *Manager, n *scene.Node) bool { return n == m.objects.MonitorButton },
		Handle: func(m *Manager, _ *scene.Node) { toggle(m, "monitor", m.cfg.Monitor) },
	},
	{
		Name:   "screen button",
		Match:  func(m *Manager, n *scene.Node) bool { return n == m.objects.ScreenButton },
		Handle: func(m *Manager, _ *scene.Node) { toggle(m, "screen", m.cfg.Screen1) },
	},
	{
		Name: "link",
		Match: func(m *Manager, n *scene.Node) bool {
			_, ok := m.linkFor(n.Name)
			return ok
		},
		Handle: func(m *Manager, n *scene.Node) {
			l, _ := m.linkFor(n.Name)
			if m.cfg.Opener == nil {
				return
			}
			if err := m.cfg.Opener.Open(l.URL); err != nil {
				m.log.Warn("open link", zap.String("url", l.URL), zap.Error(err))
			}
		},
	},
	{
		Name:  "music",
		Match: func(_ *Manager, n *scene.Node) bool { return strings.Contains(n.Name, "Music_Eighth") },
		Handle: func(m *Manager, n *scene.Node) {
			if m.cfg.Director != nil {
				m.cfg.Director.Press(n)
			}
			toggle(m, "audio", m.cfg.Audio)
		},
	},
	{
		Name: "marker",
		Match: func(m *Manager, n *scene.Node) bool {
			return m.zoomedIntoWhiteboard() && strings.HasPrefix(n.Name, "marker_")
		},
		Handle: func(m *Manager, n *scene.Node) {
			if m.cfg.Board == nil {
				return
			}
			m.cfg.Board.SelectMarker(markerToken(n.Name))
		},
	},
	{
		Name: "zoom",
		Match: func(m *Manager, n *scene.Node) bool {
			return m.cfg.Zoom != nil && !m.cfg.Zoom.Locked() && zoomTarget(n.Name) != ""
		},
		Handle: func(m *Manager, n *scene.Node) {
			if err := m.cfg.Zoom.ZoomTo(zoomTarget(n.Name)); err != nil {
				m.log.Warn("zoom", zap.String("node", n.Name), zap.Error(err))
			}
		},
	},
}

// Click routes a clicked node through ClickRules and reports the rule
// that handled it, or "" when none matched.
func (m *Manager) Click(n *scene.Node) string {
	if n == nil {
		return ""
	}
	for _, r := range m.rules {
		if r.Match(m, n) {
			m.log.Debug("click", zap.String("node", n.Name), zap.String("rule", r.Name))
			r.Handle(m, n)
			return r.Name
		}
	}
	return ""
}

// ClickAt clicks the nearest node under the viewport position.
func (m *Manager) ClickAt(x, y float64) string {
	m.setPointer(x, y)
	hits := m.picker.Intersect(m.ray(), m.cfg.Root)
	if len(hits) == 0 {
		return ""
	}
	return m.Click(hits[0].Node)
}

func (m *Manager) linkFor(name string) (Link, bool) {
	lower := strings.ToLower(name)
	for _, l := range m.links {
		if strings.Contains(lower, strings.ToLower(l.Key)) {
			return l, true
		}
	}
	return Link{}, false
}

func toggle(m *Manager, what string, t Toggler) {
	if t == nil {
		m.log.Debug("nothing to toggle", zap.String("target", what))
		return
	}
	on := t.Toggle()
	m.log.Info("toggled", zap.String("target", what), zap.Bool("on", on))
}

// markerToken is the second underscore-separated segment of a marker
// name.
func markerToken(name string) string {
	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// zoomTarget maps a node name to the preset it zooms into.
func zoomTarget(name string) string {
	switch {
	case strings.Contains(name, "Screen_1"):
		return zoom.Screen1
	case strings.Contains(name, "Screen_2"):
		return zoom.Screen2
	case strings.Contains(name, "whiteboard_raycaster_pointer"):
		return zoom.Whiteboard
	}
	return ""
}
