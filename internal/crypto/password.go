package crypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost - work factor для bcrypt.
// Стоит десятки миллисекунд на хеш на современном железе.
// Значение нельзя понижать: слабый work factor делает перебор дешевым.
const BcryptCost = 12

// HashPassword хеширует пароль с использованием bcrypt.
// Результат — самоописывающая строка: алгоритм, cost и соль
// закодированы внутри, отдельно хранить их не нужно.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword проверяет пароль против сохраненного хеша.
// Сравнение дайджестов внутри bcrypt выполняется за константное время.
// Возвращает false и для неправильного пароля, и для некорректного хеша.
func VerifyPassword(password, hash string) bool {
	// поврежденный хеш тоже означает отказ в аутентификации
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
