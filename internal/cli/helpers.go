package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/Davincible/fieldshare/internal/validation"
	"github.com/Davincible/fieldshare/pkg/config"
	"github.com/Davincible/fieldshare/pkg/crypto/field"
	"github.com/Davincible/fieldshare/pkg/secure"
	"github.com/Davincible/fieldshare/pkg/storage"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readHidden prompts on stderr and reads one line without echo when stdin
// is a terminal. Otherwise it reads a plain line from the command's input.
func readHidden(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		data, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	line, err := readLine(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readLine reads up to and excluding the next newline one byte at a time,
// so that later prompts can read what follows on the same stream.
func readLine(r io.Reader) (string, error) {
	var (
		line []byte
		b    [1]byte
	)
	for {
		n, err := r.Read(b[:])
		if n == 1 {
			if b[0] == '\n' {
				return string(line), nil
			}
			line = append(line, b[0])
		}
		if err == io.EOF && len(line) > 0 {
			return string(line), nil
		}
		if err != nil {
			return "", err
		}
	}
}

// readLines returns the non-empty, non-comment lines of the command's input.
func readLines(cmd *cobra.Command) ([]string, error) {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, line := range strings.Split(validation.SanitizeInput(string(data)), "\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// resolveField builds the field named by backend. For the prime backend an
// explicit modulus setting wins; when the setting is auto, fallback picks
// one from the inputs. The binary backend ignores the modulus.
func resolveField(backend, modulus string, fallback func() (*big.Int, error)) (field.Field, error) {
	backend = normalizeBackend(backend)
	if backend == field.BackendBinary {
		return field.NewBinary8(), nil
	}

	p, err := config.ParseModulus(modulus)
	if err != nil {
		return nil, err
	}
	if p == nil {
		if fallback == nil {
			return nil, fmt.Errorf("%w: a modulus is required, pass --modulus", field.ErrInvalidModulus)
		}
		if p, err = fallback(); err != nil {
			return nil, err
		}
	}

	return field.ByName(backend, p)
}

func normalizeBackend(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return field.BackendPrime
	}
	return name
}

func saveToFile(cmd *cobra.Command, result any, filename string, mode os.FileMode, encrypt bool) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	var passphrase []byte
	if encrypt {
		passphrase, err = readNewPassphrase(cmd)
		if err != nil {
			return err
		}
		defer secure.Zero(passphrase)
	}

	if err := storage.NewShareFile(filename, mode).Write(append(data, '\n'), passphrase); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Shares saved to %s\n", filename)
	return nil
}

// readShareFile loads a share file, asking for the passphrase only when the
// file is sealed.
func readShareFile(cmd *cobra.Command, filename string) ([]byte, error) {
	return storage.NewShareFile(filename, 0).Read(func() ([]byte, error) {
		pass, err := readHidden(cmd, "Enter share file passphrase: ")
		return []byte(pass), err
	})
}

func readNewPassphrase(cmd *cobra.Command) ([]byte, error) {
	pass, err := readHidden(cmd, "Enter passphrase for the share file: ")
	if err != nil {
		return nil, err
	}
	if pass == "" {
		return nil, fmt.Errorf("passphrase cannot be empty")
	}
	return []byte(pass), nil
}

func outputJSONResult(cmd *cobra.Command, result any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
