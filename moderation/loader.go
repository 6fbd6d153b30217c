package moderation

import (
	"bufio"
	"chat-channels/errors"
	"io/fs"
	"path"
	"strings"

	"github.com/samber/lo"
)

// Dictionary is the merged content of every word list of a directory. Each
// "<lang>.txt" file holds one word per line.
type Dictionary struct {
	Words     []string
	Languages []string
}

// LoadDictionary reads every .txt file under dir. Duplicates across files are
// merged; an empty result is an error.
func LoadDictionary(fsys fs.FS, dir string) (Dictionary, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return Dictionary{}, err
	}

	var dictionary Dictionary
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".txt" {
			continue
		}
		file, err := fsys.Open(path.Join(dir, entry.Name()))
		if err != nil {
			return Dictionary{}, err
		}
		// Scanner handles both \n and \r\n endings
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				dictionary.Words = append(dictionary.Words, line)
			}
		}
		_ = file.Close()
		if err = scanner.Err(); err != nil {
			return Dictionary{}, err
		}
		dictionary.Languages = append(dictionary.Languages, strings.TrimSuffix(entry.Name(), ".txt"))
	}

	dictionary.Words = lo.Uniq(dictionary.Words)
	if len(dictionary.Words) == 0 {
		return Dictionary{}, errors.ErrEmptyWords
	}
	return dictionary, nil
}
