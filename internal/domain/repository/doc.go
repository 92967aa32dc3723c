// Package repository define las interfaces de lookup que consume el core
// de introspección. Son contratos de solo-lectura: el core nunca crea,
// muta ni destruye tokens, clients ni usuarios.
//
// Las implementaciones concretas viven en internal/store/adapters/
// (memory, pg, redis). Convenciones:
//
//   - Context siempre es el primer parámetro.
//   - "No existe" se señala con ErrNotFound, nunca con (nil, nil).
//   - Cualquier otro error es una falla de infraestructura y se propaga.
package repository
