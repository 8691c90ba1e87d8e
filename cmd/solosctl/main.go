// solosctl - операторская утилита: генерация секретов для конфигурации
// сервера и проверка bcrypt хеширования без запуска сервера.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/solos-dev/solos/internal/crypto"
	"github.com/solos-dev/solos/internal/validation"
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	var err error
	switch flag.Arg(0) {
	case "generate-secret":
		err = generateSecret()
	case "hash-password":
		err = hashPassword()
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: solosctl <command>

Commands:
  generate-secret   print a random secret suitable for SOLOS_MASTER_SECRET / SOLOS_JWT_SECRET
  hash-password     read a password without echo and print its bcrypt hash
`)
}

// generateSecret печатает 48 случайных байт в base64: с запасом
// больше минимальной длины секрета
func generateSecret() error {
	buf := make([]byte, 48)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("failed to generate random bytes: %w", err)
	}
	fmt.Println(base64.RawURLEncoding.EncodeToString(buf))
	return nil
}

func hashPassword() error {
	fmt.Fprint(os.Stderr, "Password: ")
	pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	password := string(pwBytes)
	if err := validation.ValidatePassword(password); err != nil {
		return err
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}
