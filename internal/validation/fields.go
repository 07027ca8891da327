// Package validation описывает обязательные поля запросов декларативно:
// одна таблица правил на операцию вместо разрозненных проверок в хендлерах.
package validation

import (
	"fmt"
	"strings"
)

// Rule описывает одно поле запроса
type Rule struct {
	Name     string // имя поля в JSON
	Required bool
	MaxLen   int // 0 - без ограничения
}

// Таблицы правил по операциям
var (
	AuthRules = []Rule{
		{Name: "initData", Required: true, MaxLen: 8192},
	}

	CreatePasswordRules = []Rule{
		{Name: "service_name", Required: true, MaxLen: 255},
		{Name: "login", Required: true, MaxLen: 255},
		{Name: "ciphertext", Required: true, MaxLen: 16384},
		{Name: "nonce", Required: true, MaxLen: 64},
	}

	UpdatePasswordRules = []Rule{
		{Name: "login", Required: true, MaxLen: 255},
		{Name: "ciphertext", Required: true, MaxLen: 16384},
		{Name: "nonce", Required: true, MaxLen: 64},
	}
)

// Check проверяет значения полей против таблицы правил.
// Возвращает ошибку с перечислением всех нарушений, nil если все в порядке.
func Check(rules []Rule, values map[string]string) error {
	var problems []string

	for _, rule := range rules {
		value, ok := values[rule.Name]

		if rule.Required && (!ok || value == "") {
			problems = append(problems, fmt.Sprintf("%s is required", rule.Name))
			continue
		}

		if rule.MaxLen > 0 && len(value) > rule.MaxLen {
			problems = append(problems, fmt.Sprintf("%s exceeds %d bytes", rule.Name, rule.MaxLen))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}

	return nil
}
