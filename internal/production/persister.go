// Package production provides production integrations: snapshot
// persistence, transition publishing and visualization.
package production

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/comalice/staticfsm"
)

// Persister stores machine snapshots keyed by machine name.
type Persister interface {
	Save(ctx context.Context, snapshot staticfsm.Snapshot) error
	Load(ctx context.Context, machine string) (staticfsm.Snapshot, error)
}

// codec abstracts the file format of a filePersister.
type codec struct {
	ext       string
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

// filePersister writes one file per machine into dir.
type filePersister struct {
	dir   string
	codec codec
}

// JSONPersister is a file-based persister using JSON serialization.
type JSONPersister struct {
	filePersister
}

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "mkdir %s", dir)
	}
	return &JSONPersister{filePersister{dir: dir, codec: codec{
		ext: ".json",
		marshal: func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		},
		unmarshal: json.Unmarshal,
	}}}, nil
}

// YAMLPersister is a file-based persister using YAML serialization.
type YAMLPersister struct {
	filePersister
}

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "mkdir %s", dir)
	}
	return &YAMLPersister{filePersister{dir: dir, codec: codec{
		ext:       ".yaml",
		marshal:   yaml.Marshal,
		unmarshal: yaml.Unmarshal,
	}}}, nil
}

// Path returns the file a snapshot of machine is stored in.
func (p *filePersister) Path(machine string) string {
	return filepath.Join(p.dir, machine+p.codec.ext)
}

func (p *filePersister) Save(ctx context.Context, snapshot staticfsm.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snapshot.Machine == "" {
		return errors.New("snapshot has no machine name")
	}
	data, err := p.codec.marshal(snapshot)
	if err != nil {
		return errors.Wrapf(err, "%s marshal", p.codec.ext[1:])
	}

	fn := p.Path(snapshot.Machine)
	tmp := fn + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", tmp)
	}
	if err := os.Rename(tmp, fn); err != nil {
		return errors.Wrapf(err, "rename %s", tmp)
	}
	return nil
}

func (p *filePersister) Load(ctx context.Context, machine string) (staticfsm.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return staticfsm.Snapshot{}, err
	}
	fn := p.Path(machine)
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return staticfsm.Snapshot{}, errors.Wrapf(os.ErrNotExist, "machine %q", machine)
		}
		return staticfsm.Snapshot{}, errors.Wrapf(err, "read %s", fn)
	}

	var snapshot staticfsm.Snapshot
	if err := p.codec.unmarshal(data, &snapshot); err != nil {
		return staticfsm.Snapshot{}, errors.Wrapf(err, "%s unmarshal", p.codec.ext[1:])
	}
	snapshot.Machine = machine
	return snapshot, nil
}
