package format

import (
	"reflect"
	"testing"
)

func TestRender_ExpandsStarredBullets(t *testing.T) {
	got := Render("Buddhists practice: * meditation * mindfulness * compassion")
	want := []string{
		"Buddhists practice:",
		"• meditation",
		"• mindfulness",
		"• compassion",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Render = %v, want %v", got, want)
	}
}

func TestRender_PlainReply(t *testing.T) {
	got := Render("A short direct answer.")
	if !reflect.DeepEqual(got, []string{"A short direct answer."}) {
		t.Errorf("Render = %v", got)
	}
}

func TestRender_Empty(t *testing.T) {
	if got := Render("   "); got != nil {
		t.Errorf("Render of blank = %v, want nil", got)
	}
}

func TestRender_TrailingStar(t *testing.T) {
	got := Render("Points: * one * two *")
	want := []string{"Points:", "• one", "• two"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Render = %v, want %v", got, want)
	}
}
