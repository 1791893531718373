package pokeapi

// DefaultQuery fetches the pokemon at $random_offset, ordered by id, that
// has a front_default sprite.
const DefaultQuery = `
  query ($random_offset: Int!) {
    pokemon(
      offset: $random_offset
      order_by: [{id: asc}]
      limit: 1
      where: {pokemonsprites: {sprites: {_has_key: "front_default", _is_null: false}}}
    ) {
      pokemonspecy {
        pokemonspeciesnames(where: {language: {name: {_eq: "en"}}}) {
          name
        }
      }
      pokemonsprites {
        sprites(path: "front_default")
      }
    }
  }
`

const lastPokemonQuery = `
  {
    pokemon(limit: 1, order_by: [{order: desc}]) {
      id
    }
  }
`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse[T any] struct {
	Data   *T             `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type pokemonList[T any] struct {
	Pokemon []T `json:"pokemon"`
}

type lastPokemonFields struct {
	ID int64 `json:"id"`
}

type pokemonFields struct {
	PokemonSpecy *struct {
		PokemonSpeciesNames []struct {
			Name string `json:"name"`
		} `json:"pokemonspeciesnames"`
	} `json:"pokemonspecy"`
	PokemonSprites []struct {
		Sprites *string `json:"sprites"`
	} `json:"pokemonsprites"`
}
