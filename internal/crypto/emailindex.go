package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// IndexEmail возвращает детерминированный дайджест email для поиска
// по равенству без хранения plaintext в качестве ключа.
// Email нормализуется (trim + lowercase), поэтому User@X.com и user@x.com
// дают одинаковый дайджест.
// Это индекс, а не секрет: используется быстрый SHA256, не bcrypt.
// Дайджест никогда не используется как ключ шифрования или аутентификации.
func IndexEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", fmt.Errorf("email cannot be empty")
	}

	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:]), nil
}

// IndexIdentity возвращает дайджест произвольного идентификатора
// (email или username) для журнала неудачных попыток входа.
// Журнал не должен содержать идентификаторы в открытом виде.
func IndexIdentity(identity string) string {
	normalized := strings.ToLower(strings.TrimSpace(identity))
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])
}
