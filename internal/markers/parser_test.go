package markers

import "testing"

func TestParseCommandsSceneTakeStep(t *testing.T) {
	parsed := ParseCommands([]string{"scene", "one", "point", "five", "intro", "shot", "take", "two", "step", "3"})
	if parsed.SceneNumber == nil || *parsed.SceneNumber != 1.5 {
		t.Fatalf("scene number: %+v", parsed.SceneNumber)
	}
	if parsed.SceneName != "intro shot" {
		t.Fatalf("scene name: %q", parsed.SceneName)
	}
	if parsed.Take == nil || *parsed.Take != 2 {
		t.Fatalf("take: %+v", parsed.Take)
	}
	if parsed.Step == nil || *parsed.Step != 3 {
		t.Fatalf("step: %+v", parsed.Step)
	}
}

func TestParseCommandsOrderMirrorsScene(t *testing.T) {
	parsed := ParseCommands([]string{"order", "two"})
	if parsed.Order == nil || *parsed.Order != 2 {
		t.Fatalf("order: %+v", parsed.Order)
	}
	if parsed.SceneNumber == nil || *parsed.SceneNumber != 2 {
		t.Fatalf("scene mirror: %+v", parsed.SceneNumber)
	}
	if len(parsed.Deprecations) == 0 {
		t.Fatal("expected deprecation notice for order")
	}
}

func TestParseCommandsOrderDoesNotOverrideScene(t *testing.T) {
	parsed := ParseCommands([]string{"scene", "one", "order", "five"})
	if parsed.SceneNumber == nil || *parsed.SceneNumber != 1 {
		t.Fatalf("scene should win: %+v", parsed.SceneNumber)
	}
}

func TestParseCommandsApplyCollectsActionsAndScore(t *testing.T) {
	parsed := ParseCommands([]string{"apply", "good", "best", "quote"})
	if len(parsed.RetroactiveActions) != 3 {
		t.Fatalf("actions: %v", parsed.RetroactiveActions)
	}
	// First score word wins.
	if parsed.Score != "good" || parsed.ScoreLevel != 2 {
		t.Fatalf("score: %q level %d", parsed.Score, parsed.ScoreLevel)
	}
}

func TestParseCommandsApplyConsumesRemainder(t *testing.T) {
	parsed := ParseCommands([]string{"apply", "remove", "take", "five"})
	// "take five" belongs to the action list, not a take command.
	if parsed.Take != nil {
		t.Fatalf("take should not be parsed after apply: %+v", parsed.Take)
	}
	if len(parsed.RetroactiveActions) != 3 {
		t.Fatalf("actions: %v", parsed.RetroactiveActions)
	}
}

func TestParseCommandsLoneEnding(t *testing.T) {
	parsed := ParseCommands([]string{"ending"})
	if parsed.Ending == nil || *parsed.Ending != false {
		t.Fatalf("ending flag: %+v", parsed.Ending)
	}
	if len(parsed.RetroactiveActions) != 0 {
		t.Fatalf("lone ending must not create actions: %v", parsed.RetroactiveActions)
	}
	if len(parsed.Deprecations) == 0 {
		t.Fatal("expected deprecation notice")
	}
}

func TestParseCommandsEndingWithActionsBehavesAsApply(t *testing.T) {
	parsed := ParseCommands([]string{"ending", "best"})
	if len(parsed.RetroactiveActions) != 1 || parsed.RetroactiveActions[0] != "best" {
		t.Fatalf("actions: %v", parsed.RetroactiveActions)
	}
	if parsed.Score != "best" || parsed.ScoreLevel != 3 {
		t.Fatalf("score: %q/%d", parsed.Score, parsed.ScoreLevel)
	}
}

func TestParseCommandsNamingIsDisabled(t *testing.T) {
	parsed := ParseCommands([]string{"naming", "setup", "take", "one"})
	if parsed.Take == nil || *parsed.Take != 1 {
		t.Fatalf("take after naming: %+v", parsed.Take)
	}
	if parsed.SceneName != "" {
		t.Fatalf("naming must not store anything: %q", parsed.SceneName)
	}
}

func TestParseCommandsTitleForms(t *testing.T) {
	parsed := ParseCommands([]string{"title", "lower", "third", "Big", "Reveal", "take", "one"})
	if parsed.TitleType != "lower third" {
		t.Fatalf("title type: %q", parsed.TitleType)
	}
	if parsed.Title != "Big Reveal" {
		t.Fatalf("title: %q", parsed.Title)
	}
	if parsed.Take == nil {
		t.Fatal("take after title text should parse")
	}

	plain := ParseCommands([]string{"title", "Welcome", "Back"})
	if plain.TitleType != "" || plain.Title != "Welcome Back" {
		t.Fatalf("plain title: %q/%q", plain.TitleType, plain.Title)
	}
}

func TestParseCommandsEffectAndTransition(t *testing.T) {
	parsed := ParseCommands([]string{"effect", "resolve", "glitch", "transition", "resolve", "crossfade"})
	if parsed.Effect != "resolve:glitch" {
		t.Fatalf("effect: %q", parsed.Effect)
	}
	if parsed.Transition != "resolve:crossfade" || parsed.TransitionProduct != "resolve" {
		t.Fatalf("transition: %+v", parsed)
	}

	generic := ParseCommands([]string{"transition", "dissolve"})
	if generic.TransitionGeneric != "dissolve" || generic.Transition != "dissolve" {
		t.Fatalf("generic transition: %+v", generic)
	}
}

func TestParseCommandsQualityAndHookAndChapter(t *testing.T) {
	parsed := ParseCommands([]string{"best", "hook", "question", "chapter", "unboxing", "the", "kit"})
	if parsed.Quality != "best" {
		t.Fatalf("quality: %q", parsed.Quality)
	}
	if parsed.Hook != "question" {
		t.Fatalf("hook: %q", parsed.Hook)
	}
	if parsed.Chapter != "unboxing the kit" {
		t.Fatalf("chapter: %q", parsed.Chapter)
	}
}

func TestParseCommandsUnknownTokensSkippedAndLastWriteWins(t *testing.T) {
	parsed := ParseCommands([]string{"um", "take", "one", "uh", "take", "two"})
	if parsed.Take == nil || *parsed.Take != 2 {
		t.Fatalf("last take should win: %+v", parsed.Take)
	}
}
