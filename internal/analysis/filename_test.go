package analysis

import "testing"

func TestParseFilenameFlags(t *testing.T) {
	meta := ParseFilename("/p/01_footage/HOOK_SCREEN_intro.mov")
	if !meta.IsHook || !meta.IsScreenRecording {
		t.Fatalf("flags: %+v", meta)
	}

	cta := ParseFilename("CTA_outro_take_2.mp4")
	if !cta.IsCTA {
		t.Fatalf("cta flag: %+v", cta)
	}
	if cta.TakeNumber == nil || *cta.TakeNumber != 2 {
		t.Fatalf("take: %+v", cta.TakeNumber)
	}

	bad := ParseFilename("scene3_BAD.mov")
	if !bad.IsMistake {
		t.Fatalf("mistake flag: %+v", bad)
	}
}

func TestParseFilenameStepAndTake(t *testing.T) {
	meta := ParseFilename("STEP04_assemble_tripod_TAKE3.mov")
	if meta.StepNumber == nil || *meta.StepNumber != 4 {
		t.Fatalf("step: %+v", meta.StepNumber)
	}
	if meta.TakeNumber == nil || *meta.TakeNumber != 3 {
		t.Fatalf("take: %+v", meta.TakeNumber)
	}

	paren := ParseFilename("b_roll_city (take 7).mov")
	if paren.TakeNumber == nil || *paren.TakeNumber != 7 {
		t.Fatalf("parenthesized take: %+v", paren.TakeNumber)
	}
}

func TestParseFilenameHookFlowTags(t *testing.T) {
	cases := map[string]string{
		"intro_CH.mov":          "curiosity_hook",
		"opener_PSH_take1.mov":  "problem_solution_hook",
		"VALUE_PROP_short.mov":  "value_proposition",
		"REVEAL_unboxing.mov":   "reveal",
		"QH_what_if.mov":        "question_hook",
		"plain_interview.mov":   "",
	}
	for name, want := range cases {
		if got := ParseFilename(name).HookFlowType; got != want {
			t.Errorf("ParseFilename(%q).HookFlowType = %q, want %q", name, got, want)
		}
	}
}

func TestFilenameMetaApply(t *testing.T) {
	clip := &ClipAnalysis{FilePath: "HOOK_STEP02_demo.mov"}
	ParseFilename(clip.FilePath).Apply(clip)
	if !clip.IsHook {
		t.Fatal("hook flag not applied")
	}
	if clip.StepNumber == nil || *clip.StepNumber != 2 {
		t.Fatalf("step not applied: %+v", clip.StepNumber)
	}
}
