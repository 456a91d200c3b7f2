package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"voicegen/internal/services"
	"voicegen/internal/textutil"
)

const component = "manifest"

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, component, "load", fmt.Sprintf("read %s", path), err)
	}
	return Parse(data, path)
}

// Parse decodes and validates a manifest document. Unknown keys are rejected.
func Parse(data []byte, source string) (*Manifest, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var m Manifest
	if err := decoder.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, configError(source, "manifest is empty")
		}
		return nil, services.Wrap(services.ErrConfiguration, component, "parse", source, err)
	}
	m.Source = source

	if len(m.Lines) == 0 && len(m.Sets) == 0 {
		return nil, configError(source, "manifest defines no lines or sets")
	}
	if _, err := m.resolve(nil); err != nil {
		return nil, err
	}
	return &m, nil
}

// SetNames lists set names in manifest order.
func (m *Manifest) SetNames() []string {
	names := make([]string, 0, len(m.Sets))
	for _, s := range m.Sets {
		names = append(names, s.Name)
	}
	return names
}

// Jobs resolves the manifest into jobs rooted at outDir, in manifest order:
// ungrouped lines first, then each set's lines.
func (m *Manifest) Jobs(outDir string, opts JobOptions) ([]Job, error) {
	jobs, err := m.resolve(opts.Only)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]string, len(jobs))
	for i := range jobs {
		jobs[i].Path = filepath.Join(outDir, jobs[i].RelPath)
		if prev, ok := seen[jobs[i].Path]; ok {
			return nil, configError(m.Source, fmt.Sprintf("%s and %s both write %s", prev, jobs[i].Label(), jobs[i].RelPath))
		}
		seen[jobs[i].Path] = jobs[i].Label()
	}
	return jobs, nil
}

func (m *Manifest) resolve(only []string) ([]Job, error) {
	selected, err := m.selectSets(only)
	if err != nil {
		return nil, err
	}

	base := merge(builtinParams(), m.Defaults)
	var jobs []Job
	if len(only) == 0 {
		for i, line := range m.Lines {
			job, err := m.resolveLine("", "", base, line, i)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, job)
		}
	}

	names := make(map[string]struct{}, len(m.Sets))
	for i, set := range m.Sets {
		name := strings.TrimSpace(set.Name)
		if name == "" {
			return nil, configError(m.Source, fmt.Sprintf("set #%d has no name", i+1))
		}
		if _, dup := names[name]; dup {
			return nil, configError(m.Source, fmt.Sprintf("set %q is defined more than once", name))
		}
		names[name] = struct{}{}
		if set.Subdir != "" && !filepath.IsLocal(set.Subdir) {
			return nil, configError(m.Source, fmt.Sprintf("set %q: subdir %q must be a relative path inside the output directory", name, set.Subdir))
		}
		if len(set.Lines) == 0 {
			return nil, configError(m.Source, fmt.Sprintf("set %q has no lines", name))
		}
		if _, ok := selected[name]; !ok && len(only) > 0 {
			continue
		}
		setBase := merge(base, set.Defaults)
		for j, line := range set.Lines {
			job, err := m.resolveLine(name, set.Subdir, setBase, line, j)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func (m *Manifest) selectSets(only []string) (map[string]struct{}, error) {
	if len(only) == 0 {
		return nil, nil
	}
	known := make(map[string]struct{}, len(m.Sets))
	for _, s := range m.Sets {
		known[strings.TrimSpace(s.Name)] = struct{}{}
	}
	selected := make(map[string]struct{}, len(only))
	for _, name := range only {
		name = strings.TrimSpace(name)
		if _, ok := known[name]; !ok {
			return nil, configError(m.Source, fmt.Sprintf("unknown set %q (available: %s)", name, strings.Join(m.SetNames(), ", ")))
		}
		selected[name] = struct{}{}
	}
	return selected, nil
}

func (m *Manifest) resolveLine(set, subdir string, base Params, line Line, index int) (Job, error) {
	key := strings.TrimSpace(line.Key)
	where := fmt.Sprintf("line #%d", index+1)
	if set != "" {
		where = fmt.Sprintf("set %q line #%d", set, index+1)
	}
	if key == "" {
		return Job{}, configError(m.Source, where+": key is required")
	}
	label := key
	if set != "" {
		label = set + "/" + key
	}
	if strings.TrimSpace(line.Text) == "" {
		return Job{}, configError(m.Source, label+": text is required")
	}

	params := merge(base, line.Params)
	if params.Model == "" || params.VoiceID == "" {
		return Job{}, configError(m.Source, fmt.Sprintf("%s: missing model/voice_id; provide them in defaults or on the line", label))
	}
	if err := validateParams(&params); err != nil {
		return Job{}, configError(m.Source, fmt.Sprintf("%s: %v", label, err))
	}

	filename := strings.TrimSpace(line.Filename)
	if filename != "" {
		if !textutil.IsPlainFileName(filename) {
			return Job{}, configError(m.Source, fmt.Sprintf("%s: filename %q must be a plain file name", label, filename))
		}
		if strings.EqualFold(filename, LockFileName) {
			return Job{}, configError(m.Source, fmt.Sprintf("%s: filename %q is reserved for the run lock", label, filename))
		}
	} else {
		filename = DeriveFilename(set, key, line.Text, params.OutputFormat)
	}

	return Job{
		Set:          set,
		Key:          key,
		Text:         line.Text,
		Filename:     filename,
		RelPath:      filepath.Join(subdir, filename),
		Model:        params.Model,
		VoiceID:      params.VoiceID,
		Language:     params.Language,
		OutputFormat: params.OutputFormat,
		Seed:         params.Seed,
		Prompt:       params.Prompt,
		Output:       params.Output,
	}, nil
}

// DeriveFilename builds "<slug(set-key)>-<sha1(text)[:8]>.<format>". Editing
// the text yields a new name.
func DeriveFilename(set, key, text, format string) string {
	base := key
	if set != "" {
		base = set + "-" + key
	}
	return fmt.Sprintf("%s-%s.%s", textutil.Slugify(base, textutil.DefaultSlugLength), textutil.ShortHash(text, 8), format)
}

func configError(source, message string) error {
	if source != "" {
		message = source + ": " + message
	}
	return services.Wrap(services.ErrConfiguration, component, "validate", message, nil)
}
