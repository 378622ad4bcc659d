// Package relay turns a logical request into an ordered sequence of calls across
// credentials, providers and models.
//
// Two entry points are provided. Completer answers a single prompt by trying each provider
// and each of its credentials until one returns usable text. Translator translates documents
// of any size: it chunks the text at paragraph boundaries that are not inside code fences,
// picks model candidates by input size, walks the models and then generic translators for
// every chunk, and caches the reassembled result by content hash.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/relay"
//	    "github.com/ZaguanLabs/relay/cache"
//	    "github.com/ZaguanLabs/relay/provider"
//	)
//
//	func main() {
//	    registry := relay.NewRegistry([]string{"openrouter"}, []relay.Provider{{
//	        Name:        "openrouter",
//	        Credentials: []string{os.Getenv("OPENROUTER_API_KEY")},
//	        Caller:      provider.NewOpenAICaller(provider.OpenAIConfig{Name: "openrouter", BaseURL: provider.OpenRouterBaseURL}),
//	    }})
//
//	    engine := relay.NewChunkEngine(registry,
//	        relay.WithFallbackTranslators(provider.NewLibreTranslate(provider.LibreTranslateConfig{})),
//	    )
//	    t := relay.NewTranslator(engine, relay.WithCache(cache.NewInMemoryCache()))
//
//	    result, err := t.Translate(context.Background(), relay.Request{Text: "Hello", TargetLang: "fr"})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.TranslatedText) // Bonjour
//	}
package relay
