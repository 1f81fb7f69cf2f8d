package emotion

import (
	"errors"
	"testing"

	"github.com/chad/threadsmith/internal/persona"
)

func testPersona(frustrationIntensity float64, recovery persona.RecoverySpeed) persona.Persona {
	return persona.Persona{
		ID:   "test",
		Name: "Test",
		Emotional: &persona.EmotionalProfile{
			Responses: map[string]persona.EmotionResponse{
				"frustration": {Intensity: frustrationIntensity, Recovery: recovery},
			},
		},
	}
}

func TestGenerateArc_UnknownArcType(t *testing.T) {
	t.Parallel()

	_, err := GenerateArc(testPersona(1.0, persona.RecoveryModerate), ArcType("haunted"), "")
	if err == nil {
		t.Fatal("expected error for unknown arc type")
	}
	var ce *ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %T, want *ConfigurationError", err)
	}
	if ce.Value != "haunted" {
		t.Fatalf("ce.Value = %q, want %q", ce.Value, "haunted")
	}
}

func TestGenerateArc_ShapeInvariants(t *testing.T) {
	t.Parallel()

	for _, arcType := range ArcTypes() {
		arc, err := GenerateArc(testPersona(0.8, persona.RecoveryModerate), arcType, "pipeline keeps breaking")
		if err != nil {
			t.Fatalf("GenerateArc(%s): %v", arcType, err)
		}

		want, err := StageCount(arcType)
		if err != nil {
			t.Fatalf("StageCount(%s): %v", arcType, err)
		}
		if len(arc.Progression) != want {
			t.Errorf("%s: len(progression)=%d, want %d", arcType, len(arc.Progression), want)
		}

		if arc.Progression[0].Trajectory != Stable {
			t.Errorf("%s: first trajectory = %s, want stable", arcType, arc.Progression[0].Trajectory)
		}
		last := arc.Progression[len(arc.Progression)-1]
		if last.Trajectory != Deescalating {
			t.Errorf("%s: last trajectory = %s, want deescalating", arcType, last.Trajectory)
		}

		for i, st := range arc.Progression {
			if st.Intensity < 0 || st.Intensity > 1 {
				t.Errorf("%s: stage %d intensity %v out of [0,1]", arcType, i, st.Intensity)
			}
		}

		prev := 0
		for _, tp := range arc.TurningPoints {
			if tp.Position <= prev && tp.Position != arc.TurningPoints[0].Position {
				t.Errorf("%s: turning point positions not strictly increasing: %v", arcType, arc.TurningPoints)
				break
			}
			if tp.Position < 1 || tp.Position >= len(arc.Progression) {
				t.Errorf("%s: turning point position %d out of range", arcType, tp.Position)
			}
			prev = tp.Position
		}

		// Start/End must mirror the progression endpoints.
		if arc.Start.Primary != arc.Progression[0].Primary || arc.Start.Intensity != arc.Progression[0].Intensity {
			t.Errorf("%s: start does not match first progression stage", arcType)
		}
		if arc.End.Primary != last.Primary || arc.End.Intensity != last.Intensity {
			t.Errorf("%s: end does not match last progression stage", arcType)
		}
	}
}

func TestGenerateArc_Deterministic(t *testing.T) {
	t.Parallel()

	p := testPersona(0.9, persona.RecoverySlow)
	a, err := GenerateArc(p, ArcDiscovery, "backup job fails nightly")
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateArc(p, ArcDiscovery, "backup job fails nightly")
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Progression {
		if a.Progression[i].Intensity != b.Progression[i].Intensity {
			t.Fatalf("stage %d intensity differs across runs: %v vs %v", i, a.Progression[i].Intensity, b.Progression[i].Intensity)
		}
	}
}

func TestGenerateArc_RecoverySpeedAffectsRepeatedFrustration(t *testing.T) {
	t.Parallel()

	// problem_solver opens with two consecutive frustration stages; only the
	// second one gets the recovery multiplier.
	quick, err := GenerateArc(testPersona(1.0, persona.RecoveryQuick), ArcProblemSolver, "")
	if err != nil {
		t.Fatal(err)
	}
	slow, err := GenerateArc(testPersona(1.0, persona.RecoverySlow), ArcProblemSolver, "")
	if err != nil {
		t.Fatal(err)
	}

	if quick.Progression[0].Intensity != slow.Progression[0].Intensity {
		t.Errorf("first stage should be unaffected by recovery speed: quick=%v slow=%v",
			quick.Progression[0].Intensity, slow.Progression[0].Intensity)
	}
	if quick.Progression[1].Intensity >= slow.Progression[1].Intensity {
		t.Errorf("quick recovery second stage %v should be below slow %v",
			quick.Progression[1].Intensity, slow.Progression[1].Intensity)
	}
}

func TestGenerateArc_ProblemInjectedIntoFirstStageTriggers(t *testing.T) {
	t.Parallel()

	arc, err := GenerateArc(testPersona(0.8, persona.RecoveryModerate), ArcDiscovery, "invoices take all day")
	if err != nil {
		t.Fatal(err)
	}
	if len(arc.Progression[0].Triggers) == 0 || arc.Progression[0].Triggers[0] != "invoices take all day" {
		t.Fatalf("first stage triggers = %v, want problem first", arc.Progression[0].Triggers)
	}
}
