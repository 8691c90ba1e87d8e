package models

import "time"

// FailedAttempt представляет одну неудачную попытку входа.
// Identity хранится в виде хеша, чтобы журнал не содержал email в открытом виде.
type FailedAttempt struct {
	IdentityHash string    `json:"identity_hash"` // SHA256 hex от нормализованного идентификатора
	IPAddress    string    `json:"ip_address"`    // IP адрес клиента
	Timestamp    time.Time `json:"timestamp"`     // время попытки
}
