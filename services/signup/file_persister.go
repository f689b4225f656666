package signup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"goldengeneration/models"

	"gopkg.in/yaml.v3"
)

// FilePersister writes each registration as a YAML document under Dir,
// named after the session. Rewriting the same session replaces the file.
type FilePersister struct {
	Dir string
}

func (p *FilePersister) Path(member models.Member) string {
	return filepath.Join(p.Dir, "member-"+member.SessionID+".yaml")
}

func (p *FilePersister) Save(ctx context.Context, member models.Member) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := yaml.Marshal(member)
	if err != nil {
		return fmt.Errorf("encode member: %w", err)
	}
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	// Write then rename so a reader never sees a partial file.
	tmp, err := os.CreateTemp(p.Dir, ".member-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write member: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write member: %w", err)
	}
	if err := os.Rename(tmp.Name(), p.Path(member)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write member: %w", err)
	}
	return nil
}
