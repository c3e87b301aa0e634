package artwork

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// Resolver handles artwork resolution with multi-source fallback.
// Resolution order:
// 1. Session slot (last reference and its outcome)
// 2. Remote thumbnail URL, for http(s) references only
// 3. Embedded picture, written to the cache store
// 4. Art file next to the media (cover.jpg, folder.png, etc.)
//
// A Resolver belongs to one player session. Its slot is guarded by a mutex
// held for the whole resolution, so concurrent callers are serialized.
type Resolver struct {
	store     *Store
	extractor EmbeddedExtractor
	finder    *FilesystemFinder

	mu   sync.Mutex
	slot sessionSlot
}

// sessionSlot remembers the outcome for the most recently resolved reference,
// including a "nothing found" outcome.
type sessionSlot struct {
	mediaRef string
	result   ResolveResult
	valid    bool
}

// NewResolver creates a new artwork resolver. extractor may be nil, in which
// case embedded artwork is never considered.
func NewResolver(store *Store, extractor EmbeddedExtractor) *Resolver {
	return &Resolver{
		store:     store,
		extractor: extractor,
		finder:    NewFilesystemFinder(),
	}
}

// Resolve returns the artwork URI for mediaRef, and false when there is none.
// It never fails; strategy errors are logged and treated as "no artwork".
func (r *Resolver) Resolve(mediaRef string) (string, bool) {
	result := r.ResolveResult(mediaRef)
	return result.URI, result.Found()
}

// ResolveResult is Resolve with the producing strategy attached.
func (r *Resolver) ResolveResult(mediaRef string) ResolveResult {
	if mediaRef == "" {
		return ResolveResult{Source: SourceNone}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slot.valid && r.slot.mediaRef == mediaRef {
		return r.slot.result
	}

	r.slot = sessionSlot{}
	result := r.resolve(mediaRef)
	r.slot = sessionSlot{mediaRef: mediaRef, result: result, valid: true}

	log.Debug().
		Str("mediaRef", mediaRef).
		Str("source", string(result.Source)).
		Str("uri", result.URI).
		Msg("Resolved artwork")

	return result
}

// Reset forgets the session slot. Called when the session is torn down.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slot = sessionSlot{}
}

// resolve runs the strategies in priority order. Must hold r.mu.
func (r *Resolver) resolve(mediaRef string) ResolveResult {
	if IsRemote(mediaRef) {
		if uri, ok := ThumbnailURL(mediaRef); ok {
			return ResolveResult{URI: uri, Source: SourceThumbnail}
		}
		return ResolveResult{Source: SourceNone}
	}

	if result, err := r.tryEmbedded(mediaRef); err == nil {
		return result
	}

	if result, err := r.tryFolder(mediaRef); err == nil {
		return result
	}

	return ResolveResult{Source: SourceNone}
}

// tryEmbedded extracts an attached picture and stores it in the cache.
func (r *Resolver) tryEmbedded(mediaRef string) (ResolveResult, error) {
	if r.extractor == nil || r.store == nil {
		return ResolveResult{}, ErrNoArtwork
	}

	data, err := r.extractor.Extract(mediaRef)
	if err != nil {
		if !errors.Is(err, ErrNoArtwork) {
			log.Debug().Err(err).Str("mediaRef", mediaRef).Msg("No embedded artwork source")
		}
		return ResolveResult{}, ErrNoArtwork
	}
	if len(data) == 0 {
		return ResolveResult{}, ErrNoArtwork
	}

	uri, err := r.store.Put(mediaRef, data)
	if err != nil {
		log.Warn().Err(err).Str("mediaRef", mediaRef).Msg("Failed to cache embedded artwork")
		return ResolveResult{}, err
	}

	return ResolveResult{URI: uri, Source: SourceEmbedded}, nil
}

// tryFolder looks for an art file next to the media.
func (r *Resolver) tryFolder(mediaRef string) (ResolveResult, error) {
	path := r.finder.FindArtwork(mediaRef)
	if path == "" {
		return ResolveResult{}, ErrNoArtwork
	}

	uri, err := FileURI(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to convert artwork path to URI")
		return ResolveResult{}, err
	}

	return ResolveResult{URI: uri, Source: SourceFolder}, nil
}
