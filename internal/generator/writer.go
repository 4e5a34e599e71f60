package generator

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Script file names. They sort in load order: people before friendships.
const (
	PeopleScript      = "01_people.cypher"
	FriendshipsScript = "02_friendships.cypher"
)

// WriteDataset writes the people and friendship scripts under dir and
// returns their paths in load order.
func WriteDataset(dataset Dataset, dir string, seed int64) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	peoplePath := filepath.Join(dir, PeopleScript)
	header := fmt.Sprintf("%d people, seed %d", len(dataset.People), seed)
	if err := writeFile(peoplePath, header, PersonStatements(dataset.People)); err != nil {
		return nil, err
	}

	friendshipsPath := filepath.Join(dir, FriendshipsScript)
	header = fmt.Sprintf("%d friendships, seed %d", len(dataset.Friendships), seed)
	if err := writeFile(friendshipsPath, header, FriendshipStatements(dataset.Friendships)); err != nil {
		return nil, err
	}

	return []string{peoplePath, friendshipsPath}, nil
}

func writeFile(path, header string, stmts []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if err := WriteScript(file, header, stmts); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteScript writes a // header line followed by one statement per line,
// each terminated by a semicolon.
func WriteScript(w io.Writer, header string, stmts []string) error {
	bw := bufio.NewWriter(w)
	if header != "" {
		fmt.Fprintf(bw, "// %s\n", header)
	}
	for _, stmt := range stmts {
		bw.WriteString(stmt)
		bw.WriteString(";\n")
	}
	return bw.Flush()
}
