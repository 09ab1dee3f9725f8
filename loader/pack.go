// Copyright 2025 Binaek Sarkar
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package loader

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"

	"github.com/minbzk/regelrecht/config"
	"github.com/minbzk/regelrecht/constants"
	"github.com/minbzk/regelrecht/lawast"
)

var (
	ErrPackFileNotFound   = errors.New("pack manifest not found")
	ErrPackFileLoadFailed = errors.New("pack manifest load failed")
)

// ManifestFileName is the conventional manifest filename a pack root (or
// any of its ancestor directories) is searched for: regelrecht.pack.toml.
var ManifestFileName = constants.APPNAME + "." + constants.PackFileExtension

// Pack is a loaded manifest plus every law it governs.
type Pack struct {
	Manifest *config.Manifest
	Laws     []*lawast.Law
}

// LoadPack locates regelrecht.pack.toml starting at root (searching root
// itself, then its ancestors), checks its engine-version constraint, and
// parses every *.law.yaml file alongside it.
func LoadPack(ctx context.Context, root string) (*Pack, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	manifestPath, err := locateManifest(ctx, root)
	if err != nil {
		return nil, errors.Wrap(err, "locate pack manifest")
	}

	manifest, err := config.Load(manifestPath)
	if err != nil {
		return nil, errors.Wrap(ErrPackFileLoadFailed, err.Error())
	}
	manifest.Location = filepath.Dir(manifestPath)

	if err := manifest.CheckEngineVersion(config.EngineVersion); err != nil {
		return nil, err
	}

	laws, err := LoadDir(manifest.Location)
	if err != nil {
		return nil, errors.Wrap(err, "load law files")
	}

	return &Pack{Manifest: manifest, Laws: laws}, nil
}

func locateManifest(ctx context.Context, root string) (string, error) {
	if root == "/" {
		return "", errors.New("cannot search from filesystem root")
	}
	if len(strings.TrimSpace(root)) == 0 {
		return "", errors.New("root is empty")
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrap(err, "resolve absolute path")
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", errors.Wrap(err, "stat root")
	}

	if info.Name() == ManifestFileName {
		return root, nil
	}
	if _, err := os.Stat(filepath.Join(root, ManifestFileName)); err == nil {
		return filepath.Join(root, ManifestFileName), nil
	}

	for {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		root = filepath.Dir(root)
		if root == "/" || (runtime.GOOS == "windows" && strings.HasSuffix(root, `:\`)) {
			break
		}
		if _, err := os.Stat(filepath.Join(root, ManifestFileName)); err == nil {
			return filepath.Join(root, ManifestFileName), nil
		}
	}

	return "", ErrPackFileNotFound
}
