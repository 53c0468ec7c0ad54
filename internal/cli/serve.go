package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/grovekit/grove/pkg/cache"
	"github.com/grovekit/grove/pkg/forest"
	"github.com/grovekit/grove/pkg/observability"
	"github.com/grovekit/grove/pkg/render/treedot"
	"github.com/grovekit/grove/pkg/tree"
)

// responseTTL bounds cached DOT responses. Mutations re-scope the keys
// immediately; the TTL only reclaims entries from dead versions.
const responseTTL = 5 * time.Minute

// newServeCmd creates the serve command, an HTTP inspector over the trees
// of one scenario file.
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [scenario.toml]",
		Short: "Serve scenario trees over HTTP",
		Long: `Serve exposes the scenario's trees through a JSON API:

  GET    /trees                           list trees
  GET    /trees/{id}                      tree stats and root
  GET    /trees/{id}/nodes/{handle}       one node
  POST   /trees/{id}/nodes                link a node  {"parent": 0, "content": "..."}
  PUT    /trees/{id}/nodes/{handle}       update content  {"content": "..."}
  DELETE /trees/{id}/nodes/{handle}       unlink a branch
  GET    /trees/{id}/traversals/{order}   visit sequence, ?from=<handle>
  GET    /trees/{id}/dot                  DOT text, ?detailed=true&severed=true

Trees live in memory; mutations are lost when the server stops.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), args[0], addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}

func runServe(ctx context.Context, path, addr string) error {
	sc, err := readScenario(path)
	if err != nil {
		return err
	}
	if sc.Dialect == dialectWeighted {
		return serveTrees(ctx, sc, addr, tree.ParseWeighted)
	}
	return serveTrees(ctx, sc, addr, tree.ParseRaw)
}

func serveTrees[C tree.Content](ctx context.Context, sc *scenarioFile, addr string, parse tree.ParseFunc[C]) error {
	loaded, err := buildForest(sc, parse)
	if err != nil {
		return err
	}

	logger := loggerFromContext(ctx)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newTreeServer(loaded, logger).routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	printInfo("Inspector listening on %s (%d trees)", addr, len(loaded.ids))
	fmt.Println("  " + StyleLink.Render("http://localhost"+displayAddr(addr)+"/trees"))

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			printWarning("Shutdown was not clean: %v", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// displayAddr renders a listen address for the startup hint. ":8080" alone
// means every interface, so the hint points at localhost.
func displayAddr(addr string) string {
	if addr != "" && addr[0] == ':' {
		return addr
	}
	return ""
}

// =============================================================================
// treeServer
// =============================================================================

// treeServer guards a forest with a single RWMutex: traversals and renders
// take the read side, mutations the write side. The tree core itself leaves
// concurrent use undefined, so the guard is the whole concurrency story.
type treeServer[C tree.Content] struct {
	mu     sync.RWMutex
	forest *forest.Forest[forest.Name, C]
	ids    []forest.Name

	resp    cache.Cache
	keyer   cache.Keyer
	version int64 // bumped per mutation; scopes response cache keys

	logger *log.Logger
}

func newTreeServer[C tree.Content](loaded *scenario[C], logger *log.Logger) *treeServer[C] {
	return &treeServer[C]{
		forest: loaded.forest,
		ids:    loaded.ids,
		resp:   cache.NewMemoryCache(),
		keyer:  cache.NewDefaultKeyer(),
		logger: logger,
	}
}

func (s *treeServer[C]) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.logRequests)

	r.Route("/trees", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleTree)
			r.Get("/dot", s.handleDOT)
			r.Get("/traversals/{order}", s.handleTraversal)
			r.Post("/nodes", s.handleLink)
			r.Route("/nodes/{handle}", func(r chi.Router) {
				r.Get("/", s.handleNode)
				r.Put("/", s.handleUpdate)
				r.Delete("/", s.handleUnlink)
			})
		})
	})

	return r
}

// logRequests logs every request with its duration at debug level.
func (s *treeServer[C]) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debugf("%s %s (%s)", r.Method, r.URL.Path, time.Since(start).Round(time.Microsecond))
	})
}

// =============================================================================
// Wire Types
// =============================================================================

type treeSummary struct {
	ID    string `json:"id"`
	Nodes int    `json:"nodes"`
	Depth int    `json:"depth"`
}

type nodeJSON struct {
	Handle   tree.Handle   `json:"handle"`
	Value    string        `json:"value"`
	Level    int           `json:"level"`
	Parent   *tree.Handle  `json:"parent,omitempty"`
	Children []tree.Handle `json:"children"`
}

type linkRequest struct {
	Parent  tree.Handle `json:"parent"`
	Content string      `json:"content"`
}

type updateRequest struct {
	Content string `json:"content"`
}

func toNodeJSON[C tree.Content](h tree.Handle, n *tree.Node[C]) nodeJSON {
	out := nodeJSON{
		Handle:   h,
		Value:    n.Content().Value(),
		Level:    n.Level(),
		Children: []tree.Handle{},
	}
	if parent, ok := n.Parent(); ok {
		out.Parent = &parent
	}
	for _, c := range n.Children() {
		if c != tree.NoHandle {
			out.Children = append(out.Children, c)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps the library's sentinel errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, forest.ErrTreeNotFound),
		errors.Is(err, tree.ErrChildNotFound),
		errors.Is(err, tree.ErrParentNotFound):
		return http.StatusNotFound
	case errors.Is(err, tree.ErrDuplicateChild),
		errors.Is(err, tree.ErrRootExists):
		return http.StatusConflict
	case errors.Is(err, tree.ErrContentParse),
		errors.Is(err, forest.ErrIDParse):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// =============================================================================
// Read Handlers
// =============================================================================

func (s *treeServer[C]) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]treeSummary, 0, len(s.ids))
	for _, id := range s.ids {
		t, ok := s.forest.GetByKey(id)
		if !ok {
			continue
		}
		out = append(out, treeSummary{ID: string(id), Nodes: t.NodeCount(), Depth: treeDepth(t)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *treeServer[C]) handleTree(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.forest.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	resp := struct {
		treeSummary
		Root *nodeJSON `json:"root,omitempty"`
	}{
		treeSummary: treeSummary{ID: chi.URLParam(r, "id"), Nodes: t.NodeCount(), Depth: treeDepth(t)},
	}
	if root, ok := t.Root(); ok {
		if n, ok := t.Node(root); ok {
			rj := toNodeJSON(root, n)
			resp.Root = &rj
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *treeServer[C]) handleNode(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.forest.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	h, err := parseHandle(chi.URLParam(r, "handle"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	n, ok := t.Node(h)
	if !ok {
		writeError(w, http.StatusNotFound, tree.ErrChildNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toNodeJSON(h, n))
}

func (s *treeServer[C]) handleTraversal(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.forest.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	from := tree.NoHandle
	if q := r.URL.Query().Get("from"); q != "" {
		from, err = parseHandle(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	order := chi.URLParam(r, "order")
	seq, err := orderSeq(t.IterAt(from), order)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	sequence := []nodeJSON{}
	for h, n := range seq {
		sequence = append(sequence, toNodeJSON(h, n))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"order":    order,
		"sequence": sequence,
	})
}

func (s *treeServer[C]) handleDOT(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	t, err := s.forest.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.mu.RUnlock()
		writeError(w, statusFor(err), err)
		return
	}

	// Keys are scoped by mutation version, so a stale entry can never be
	// served after a write.
	scoped := cache.NewScopedKeyer(s.keyer, fmt.Sprintf("v%d:", s.version))
	key := scoped.ResponseKey(r.URL.Path, r.URL.RawQuery)

	if data, hit, err := s.resp.Get(r.Context(), key); err == nil && hit {
		s.mu.RUnlock()
		observability.Cache().OnHit(r.Context(), "response")
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write(data)
		return
	}
	observability.Cache().OnMiss(r.Context(), "response")

	dot := treedot.ToDOT(t, treedot.Options{
		Detailed: r.URL.Query().Get("detailed") == "true",
		Severed:  r.URL.Query().Get("severed") == "true",
	})
	s.mu.RUnlock()

	_ = s.resp.Set(r.Context(), key, []byte(dot), responseTTL)
	observability.Cache().OnSet(r.Context(), "response", len(dot))
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = w.Write([]byte(dot))
}

// =============================================================================
// Mutation Handlers
// =============================================================================

func (s *treeServer[C]) handleLink(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.forest.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	h, err := t.Link(req.Content, req.Parent)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	s.version++
	observability.Tree().OnLink(r.Context(), chi.URLParam(r, "id"), int(h))

	n, _ := t.Node(h)
	writeJSON(w, http.StatusCreated, toNodeJSON(h, n))
}

func (s *treeServer[C]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.forest.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	h, err := parseHandle(chi.URLParam(r, "handle"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if _, err := t.UpdateContent(req.Content, h); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	s.version++
	observability.Tree().OnUpdate(r.Context(), chi.URLParam(r, "id"), int(h))

	n, _ := t.Node(h)
	writeJSON(w, http.StatusOK, toNodeJSON(h, n))
}

func (s *treeServer[C]) handleUnlink(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.forest.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	h, err := parseHandle(chi.URLParam(r, "handle"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if _, err := t.Unlink(h); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	s.version++
	observability.Tree().OnUnlink(r.Context(), chi.URLParam(r, "id"), int(h))

	writeJSON(w, http.StatusOK, map[string]any{"handle": h, "severed": true})
}

func parseHandle(s string) (tree.Handle, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return tree.NoHandle, fmt.Errorf("invalid handle: %s", s)
	}
	return tree.Handle(v), nil
}
