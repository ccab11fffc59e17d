package artifact

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/ludo-technologies/contractsize/domain"
)

// DefaultIgnoreFile is picked up from the working directory when present
const DefaultIgnoreFile = ".contractsizeignore"

// Filter decides which discovered artifact files are measured
type Filter struct {
	contracts   []*regexp.Regexp
	except      []*regexp.Regexp
	ignoreMocks bool
	ignored     *ignore.GitIgnore
}

// NewFilter compiles the patterns in f. An explicitly named ignore file must
// exist; the default one is optional.
func NewFilter(f domain.ArtifactFilter) (*Filter, error) {
	contracts, err := compilePatterns("contracts", f.Contracts)
	if err != nil {
		return nil, err
	}
	except, err := compilePatterns("except", f.Except)
	if err != nil {
		return nil, err
	}

	filter := &Filter{
		contracts:   contracts,
		except:      except,
		ignoreMocks: f.IgnoreMocks,
	}

	ignoreFile := f.IgnoreFile
	explicit := ignoreFile != ""
	if !explicit {
		ignoreFile = DefaultIgnoreFile
	}
	gi, err := ignore.CompileIgnoreFile(ignoreFile)
	switch {
	case err == nil:
		filter.ignored = gi
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, domain.NewConfigError("failed to read ignore file "+ignoreFile, err)
	}

	return filter, nil
}

// CompilePatterns validates regex filters without building a Filter
func CompilePatterns(field string, patterns []string) error {
	_, err := compilePatterns(field, patterns)
	return err
}

func compilePatterns(field string, patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, domain.NewConfigError("invalid "+field+" pattern "+p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// Keep reports whether an artifact path passes every filter
func (f *Filter) Keep(path string) bool {
	if !strings.HasSuffix(path, ".json") {
		return false
	}
	if len(f.contracts) > 0 && !matchesAny(f.contracts, path) {
		return false
	}
	if f.ignoreMocks && strings.HasSuffix(strings.ToLower(path), "mock.json") {
		return false
	}
	if matchesAny(f.except, path) {
		return false
	}
	if f.ignored != nil && f.ignored.MatchesPath(filepath.ToSlash(path)) {
		return false
	}
	return true
}

func matchesAny(patterns []*regexp.Regexp, path string) bool {
	for _, re := range patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// Discover walks root and returns every contract artifact candidate in
// lexical order. Debug files and build-info directories are skipped.
func Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewFileNotFoundError(root, err)
		}
		return nil, domain.NewReadError(root, err)
	}
	if !info.IsDir() {
		if isArtifactFile(root) {
			return []string{root}, nil
		}
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if isArtifactFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewReadError(root, err)
	}
	return files, nil
}

func isArtifactFile(path string) bool {
	return strings.HasSuffix(path, ".json") && !strings.HasSuffix(path, ".dbg.json")
}

// Select discovers artifacts under root and applies the filter
func Select(root string, f *Filter) ([]string, error) {
	candidates, err := Discover(root)
	if err != nil {
		return nil, err
	}
	selected := candidates[:0]
	for _, path := range candidates {
		if f.Keep(path) {
			selected = append(selected, path)
		}
	}
	return selected, nil
}
