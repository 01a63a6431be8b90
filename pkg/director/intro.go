package director

import (
	"go.uber.org/zap"

	"github.com/taigrr/roomfolio/pkg/anim"
	"github.com/taigrr/roomfolio/pkg/scene"
)

// IntroObjects maps fixed logical names to the nodes the intro animates.
// Missing entries are skipped.
type IntroObjects map[string]*scene.Node

// Intro key groups, in animation order.
var (
	LinkKeys  = []string{"linkedin", "github", "Threejs", "Luffy", "Music_Eighth", "CV", "Project1", "Project2", "Project3"}
	NotesKeys = []string{"notes", "notes_001", "notes_002", "notes_003", "notes_004", "notes_005"}
	ToyKeys   = []string{"headset", "plushie1", "plushie2", "chair", "partokurchi"}
)

// notesAxes lists which position axes each notes object returns along.
var notesAxes = map[string]string{
	"notes":     "y",
	"notes_001": "xy",
	"notes_002": "zy",
	"notes_003": "zy",
	"notes_004": "xyz",
	"notes_005": "xyz",
}

// Timeline labels.
const (
	LabelIconsStart      = "iconsStart"
	LabelIconsRotate     = "iconsRotate"
	LabelIconsRotateBack = "iconsRotateBack"
	LabelToys            = "toys"
)

// IntroTimeline builds the reveal: the car drops in, links fall and wiggle
// from slightly before it lands, notes fly home, then the toys pop in.
func IntroTimeline(objs IntroObjects) *anim.Timeline {
	tl := anim.NewTimeline(anim.Defaults{Duration: 0.8, Ease: anim.BackOut(1.8)})

	if car := objs["car"]; car != nil {
		if pos, ok := car.Baseline.InitialPosition(); ok {
			tl.Add(anim.To(1.2, anim.Power2Out, anim.Prop(&car.Position.Y, pos.Y)))
			tl.AddLabel(LabelIconsStart, -0.4)
		}
	}

	for _, key := range LinkKeys {
		n := objs[key]
		if n == nil {
			continue
		}
		pos, okp := n.Baseline.InitialPosition()
		rot, okr := n.Baseline.InitialRotation()
		if !okp || !okr {
			continue
		}
		tl.AddAt(LabelIconsStart, anim.To(0.8, anim.BackOut(0.8), anim.Prop(&n.Position.Y, pos.Y)))
		tl.AddAt(LabelIconsRotate, anim.To(0.5, anim.Power4Out, anim.Prop(&n.Rotation.Z, rot.Z-LinkTilt)))
		tl.AddAt(LabelIconsRotateBack, anim.To(0.3, anim.BounceOut, anim.Prop(&n.Rotation.Z, rot.Z)))
	}

	for _, key := range NotesKeys {
		n := objs[key]
		if n == nil {
			continue
		}
		pos, ok := n.Baseline.InitialPosition()
		if !ok {
			continue
		}
		var tracks []anim.Track
		for _, axis := range notesAxes[key] {
			switch axis {
			case 'x':
				tracks = append(tracks, anim.Prop(&n.Position.X, pos.X))
			case 'y':
				tracks = append(tracks, anim.Prop(&n.Position.Y, pos.Y))
			case 'z':
				tracks = append(tracks, anim.Prop(&n.Position.Z, pos.Z))
			}
		}
		tl.AddAt(LabelIconsStart, anim.To(1.5, anim.Power4Out, tracks...))
	}

	for _, key := range ToyKeys {
		if n := objs[key]; n != nil {
			tl.AddAt(LabelToys, anim.To(0.8, anim.BackOut(2.2), anim.Vec3(&n.Scale, restScale)...))
		}
	}
	return tl
}

// PlayIntro starts the intro once per director. Later calls do nothing and
// report false.
func (d *Director) PlayIntro(objs IntroObjects) bool {
	if d.played {
		return false
	}
	d.played = true
	tl := IntroTimeline(objs)
	tl.OnComplete = func() { d.log.Debug("intro finished") }
	d.eng.Play(tl)
	d.log.Info("intro started", zap.Int("objects", len(objs)), zap.Float64("duration", tl.Duration()))
	return true
}

// IntroPlayed reports whether PlayIntro has fired.
func (d *Director) IntroPlayed() bool {
	return d.played
}
