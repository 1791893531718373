package pokedb

// DefaultPokemonQuery picks one pokemon that has a front_default sprite.
// It must return (id, name, pokemon_species_id).
const DefaultPokemonQuery = `
SELECT
    "pokemon_v2_pokemon"."id",
    "pokemon_v2_pokemon"."name",
    "pokemon_v2_pokemon"."pokemon_species_id"
FROM "pokemon_v2_pokemon"
JOIN
    "pokemon_v2_pokemonsprites" ON "pokemon_v2_pokemonsprites"."pokemon_id" = "pokemon_v2_pokemon"."id"
WHERE 1=1
    AND JSON_EXTRACT("pokemon_v2_pokemonsprites"."sprites", '$.front_default') IS NOT NULL
ORDER BY RANDOM()
LIMIT 1
`

// DefaultSpeciesNameQuery picks one English name for the species bound to
// the single parameter. It must return (id, genus, name).
const DefaultSpeciesNameQuery = `
SELECT
    "pokemon_v2_pokemonspeciesname"."id",
    "pokemon_v2_pokemonspeciesname"."genus",
    "pokemon_v2_pokemonspeciesname"."name"
FROM "pokemon_v2_pokemonspeciesname"
WHERE 1=1
    AND "pokemon_v2_pokemonspeciesname"."language_id" = (
        SELECT
            "pokemon_v2_language"."id"
        FROM "pokemon_v2_language"
        WHERE 1=1
            AND "pokemon_v2_language"."name" = 'en'
        LIMIT 1
    )
    AND "pokemon_v2_pokemonspeciesname"."pokemon_species_id" = ?
ORDER BY RANDOM()
LIMIT 1
`

// DefaultSpritesQuery picks one sprite for the pokemon bound to the single
// parameter. It must return (id, sprites).
const DefaultSpritesQuery = `
SELECT
    "pokemon_v2_pokemonsprites"."id",
    COALESCE(JSON_EXTRACT("pokemon_v2_pokemonsprites"."sprites", '$.front_default'), '') AS "sprites"
FROM "pokemon_v2_pokemonsprites"
WHERE 1=1
    AND "pokemon_v2_pokemonsprites"."pokemon_id" = ?
ORDER BY RANDOM()
LIMIT 1
`

const spriteURLsQuery = `
SELECT DISTINCT
    JSON_EXTRACT("pokemon_v2_pokemonsprites"."sprites", '$.front_default')
FROM "pokemon_v2_pokemonsprites"
WHERE JSON_EXTRACT("pokemon_v2_pokemonsprites"."sprites", '$.front_default') IS NOT NULL
ORDER BY 1
`
