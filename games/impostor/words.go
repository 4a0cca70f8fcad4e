/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

// DefaultWords is used when no word list is configured.
var DefaultWords = []string{
	"Beach", "Pizza", "Doctor", "Airport", "Library",
	"Hospital", "Restaurant", "School", "Museum", "Cinema",
	"Camping", "Wedding", "Funeral", "Concert", "Zoo",
	"Gym", "Bank", "Casino", "Circus", "Farm",
}

var errNoWords = errors.New("word list is empty")

// ReadWords parses one word per line. Blank lines and lines starting with
// '#' are skipped, duplicates are dropped.
func ReadWords(r io.Reader) ([]string, error) {
	seen := make(map[string]bool)
	words := []string{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") || seen[word] {
			continue
		}
		seen[word] = true
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(words) == 0 {
		return nil, errNoWords
	}

	return words, nil
}

// LoadWords reads a word list from path, or returns DefaultWords if path is
// empty.
func LoadWords(path string) ([]string, error) {
	if path == "" {
		return DefaultWords, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadWords(f)
}
