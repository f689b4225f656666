package signup

import (
	"context"
	"os"
	"testing"

	"goldengeneration/models"

	"gopkg.in/yaml.v3"
)

func TestFilePersisterWritesYAML(t *testing.T) {
	p := &FilePersister{Dir: t.TempDir()}
	member := models.Member{
		UserID:    "local",
		SessionID: "s-1",
		Locale:    "he",
		Personal:  completeDetails(),
		Community: models.CommunityPreferences{
			CurrentActivities: []string{"choir"},
			IsVolunteer:       true,
			Volunteering:      &models.Volunteering{Areas: []string{"health"}, Hours: []string{}, Days: []string{"friday"}},
			NeedsConsultation: []string{},
		},
	}
	if err := p.Save(context.Background(), member); err != nil {
		t.Fatalf("save: %v", err)
	}
	// Saving twice keeps one file.
	if err := p.Save(context.Background(), member); err != nil {
		t.Fatalf("save again: %v", err)
	}
	entries, err := os.ReadDir(p.Dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one file, got %d", len(entries))
	}

	data, err := os.ReadFile(p.Path(member))
	if err != nil {
		t.Fatal(err)
	}
	var got models.Member
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Personal.City != member.Personal.City || got.Community.Volunteering == nil || got.Community.Additional != nil {
		t.Fatalf("unexpected document %+v", got)
	}
}
