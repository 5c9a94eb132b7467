package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"bovpuzzle/internal/puzzle"
)

type yamlSettings struct {
	CountDownSeconds  int            `yaml:"countdown_seconds"`
	WrongPiecesMillis int            `yaml:"wrong_pieces_millis"`
	TipsSeconds       int            `yaml:"tips_seconds"`
	Audio             *puzzle.Audio  `yaml:"audio"`
	Levels            []puzzle.Level `yaml:"levels"`
	Pieces            [][]int        `yaml:"pieces"`
}

// LoadSettings reads puzzle settings from a YAML file.
// An empty path returns the defaults; values missing from the file keep their defaults.
func LoadSettings(path string) (puzzle.Settings, error) {
	settings := puzzle.DefaultSettings()
	if path == "" {
		return settings, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return settings, errors.Wrap(err, "read settings file")
	}
	return ParseSettings(raw)
}

// ParseSettings overlays YAML data on the default settings and validates the result.
func ParseSettings(raw []byte) (puzzle.Settings, error) {
	settings := puzzle.DefaultSettings()

	var fileData yamlSettings
	if err := yaml.Unmarshal(raw, &fileData); err != nil {
		return settings, errors.Wrap(err, "parse settings yaml")
	}
	applyYamlSettings(&settings, fileData)
	return settings.Validate(), nil
}

// MarshalSettings renders settings in the format ParseSettings reads.
func MarshalSettings(settings puzzle.Settings) ([]byte, error) {
	audio := settings.Audio
	fileData := yamlSettings{
		CountDownSeconds:  int(settings.CountDown / time.Second),
		WrongPiecesMillis: int(settings.CountDownWrongPieces / time.Millisecond),
		TipsSeconds:       int(settings.TipsTime / time.Second),
		Audio:             &audio,
		Levels:            settings.Levels,
	}
	for _, p := range settings.Pieces {
		fileData.Pieces = append(fileData.Pieces, []int(p))
	}
	out, err := yaml.Marshal(fileData)
	if err != nil {
		return nil, errors.Wrap(err, "marshal settings yaml")
	}
	return out, nil
}

func applyYamlSettings(settings *puzzle.Settings, fileData yamlSettings) {
	if fileData.CountDownSeconds > 0 {
		settings.CountDown = time.Duration(fileData.CountDownSeconds) * time.Second
	}
	if fileData.WrongPiecesMillis > 0 {
		settings.CountDownWrongPieces = time.Duration(fileData.WrongPiecesMillis) * time.Millisecond
	}
	if fileData.TipsSeconds > 0 {
		settings.TipsTime = time.Duration(fileData.TipsSeconds) * time.Second
	}
	if fileData.Audio != nil {
		settings.Audio = *fileData.Audio
	}
	if len(fileData.Levels) > 0 {
		settings.Levels = fileData.Levels
	}
	if len(fileData.Pieces) > 0 {
		settings.Pieces = settings.Pieces[:0:0]
		for _, p := range fileData.Pieces {
			if len(p) == 0 {
				continue
			}
			settings.Pieces = append(settings.Pieces, puzzle.Piece(p))
		}
	}
}
