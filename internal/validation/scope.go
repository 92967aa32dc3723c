// Package validation valida nombres de scope OAuth2. Lo usa config para
// rechazar al arranque un protection scope o una lista cross-client mal
// escrita, antes de que una política rota deniegue todo en runtime.
package validation

import "regexp"

// Reglas: minúsculas, empieza y termina en [a-z0-9], en el medio admite
// [a-z0-9:_.-], largo 1..64. Sin espacios ni punto y coma.
var scopeNameRe = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9:_\.-]{0,62}[a-z0-9])?$`)

// ValidScopeName reporta si name es un nombre de scope aceptable.
func ValidScopeName(name string) bool {
	return scopeNameRe.MatchString(name)
}
