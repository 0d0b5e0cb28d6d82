package httpx

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/devconnector/devconnector/internal/domain"
	"github.com/devconnector/devconnector/internal/repository"
	"github.com/devconnector/devconnector/internal/service/auth"
	"github.com/devconnector/devconnector/internal/service/github"
	"github.com/devconnector/devconnector/internal/service/post"
	"github.com/devconnector/devconnector/internal/service/profile"
	"github.com/devconnector/devconnector/internal/validate"
	"github.com/devconnector/devconnector/internal/ws"
)

// Router wires HTTP endpoints to services.
type Router struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	auth     auth.Service
	profile  profile.Service
	post     post.Service
	github   github.Service
	feedHub  *ws.Hub
	upgrader websocket.Upgrader
	limiter  RateLimiter
	dbHealth func(context.Context) error

	metricsOnce        sync.Once
	metricsInitialized bool
	requestTotal       *prometheus.CounterVec
	requestLatency     *prometheus.HistogramVec
	rateLimitHits      *prometheus.CounterVec
}

const (
	rateWindowDefault  = time.Minute
	rateWindowRealtime = 30 * time.Second
	rateLimitRegister  = 5
	rateLimitLogin     = 12
	rateLimitUserWrite = 60
	rateLimitUserRead  = 120
	rateLimitPublic    = 120
	rateLimitWebsocket = 30
	healthCheckTimeout = 2 * time.Second
)

// NewRouter assembles routes with dependencies.
func NewRouter(logger *slog.Logger, authSvc auth.Service, profileSvc profile.Service, postSvc post.Service, githubSvc github.Service, feedHub *ws.Hub, limiter RateLimiter, dbHealth func(context.Context) error) *Router {
	r := &Router{
		mux:     http.NewServeMux(),
		logger:  logger,
		auth:    authSvc,
		profile: profileSvc,
		post:    postSvc,
		github:  githubSvc,
		feedHub: feedHub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		limiter:  limiter,
		dbHealth: dbHealth,
	}
	if r.limiter == nil {
		r.limiter = NewMemoryRateLimiter()
	}
	r.initMetrics()
	r.register()
	return r
}

// ServeHTTP delegates to the underlying mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Close releases background resources.
func (r *Router) Close() {
	if r.limiter != nil {
		r.limiter.Close()
	}
}

func (r *Router) register() {
	r.mux.HandleFunc("/healthz", r.audit("healthz", r.handleHealthz))
	r.mux.Handle("/metrics", promhttp.Handler())
	r.mux.HandleFunc("/api/users", r.audit("register", r.withRateLimit("register", rateLimitRegister, rateWindowDefault, rateLimitKeyIP, r.handleRegister)))
	r.mux.HandleFunc("/api/auth", r.audit("auth", r.handleAuth))
	r.mux.HandleFunc("/api/profile", r.audit("profile", r.handleProfile))
	r.mux.HandleFunc("/api/profile/", r.audit("profile", r.handleProfileSubroutes))
	r.mux.HandleFunc("/api/posts", r.audit("posts", r.handlerAuthRate("posts", rateLimitUserWrite, rateWindowDefault, r.handlePosts)))
	r.mux.HandleFunc("/api/posts/", r.audit("posts", r.handlerAuthRate("posts", rateLimitUserWrite, rateWindowDefault, r.handlePostSubroutes)))
	r.mux.HandleFunc("/ws/feed", r.audit("feed", r.handlerAuthRate("feed", rateLimitWebsocket, rateWindowRealtime, r.handleFeedWS)))
}

// writeServiceError maps service errors onto the HTTP error taxonomy.
// Unexpected errors are logged with detail and rendered generically.
func (r *Router) writeServiceError(w http.ResponseWriter, req *http.Request, err error) {
	var verrs validate.Errors
	switch {
	case errors.As(err, &verrs):
		writeValidationErrors(w, verrs)
	case errors.Is(err, auth.ErrUserExists):
		writeValidationErrors(w, validate.Errors{}.Add(err.Error()))
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, post.ErrNotPostOwner), errors.Is(err, post.ErrNotCommentOwner):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, post.ErrPostNotFound), errors.Is(err, post.ErrCommentNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, post.ErrAlreadyLiked), errors.Is(err, post.ErrNotYetLiked):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, profile.ErrProfileNotFound), errors.Is(err, profile.ErrNoSuchEntity):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, github.ErrNoGithubProfile):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	default:
		r.logger.Error("handler error", "path", req.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Server Error")
	}
}

func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	_, token, err := r.auth.Register(req.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (r *Router) handleAuth(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodPost:
		r.withRateLimit("login", rateLimitLogin, rateWindowDefault, rateLimitKeyIP, r.handleLogin)(w, req)
	case http.MethodGet:
		r.requireAuth(r.handleCurrentUser)(w, req)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	_, token, err := r.auth.Login(req.Context(), payload.Email, payload.Password)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (r *Router) handleCurrentUser(w http.ResponseWriter, req *http.Request) {
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for current user", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	user, err := r.auth.CurrentUser(req.Context(), info.UserID)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (r *Router) handleProfile(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		r.withRateLimit("profiles", rateLimitPublic, rateWindowDefault, rateLimitKeyIP, r.handleListProfiles)(w, req)
	case http.MethodPost:
		r.handlerAuthRate("profile", rateLimitUserWrite, rateWindowDefault, r.handleUpsertProfile)(w, req)
	case http.MethodDelete:
		r.handlerAuthRate("profile", rateLimitUserWrite, rateWindowDefault, r.handleDeleteAccount)(w, req)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleListProfiles(w http.ResponseWriter, req *http.Request) {
	profiles, err := r.profile.List(req.Context())
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (r *Router) handleUpsertProfile(w http.ResponseWriter, req *http.Request) {
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for profile upsert", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	var payload profile.UpsertInput
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	saved, err := r.profile.Upsert(req.Context(), info.UserID, payload)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (r *Router) handleDeleteAccount(w http.ResponseWriter, req *http.Request) {
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for account deletion", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	if err := r.profile.DeleteAccount(req.Context(), info.UserID); err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "User removed"})
}

func (r *Router) handleProfileSubroutes(w http.ResponseWriter, req *http.Request) {
	trimmed := strings.TrimPrefix(req.URL.Path, "/api/profile/")
	parts := strings.Split(trimmed, "/")
	if len(parts) == 0 || parts[0] == "" {
		r.notFound(w)
		return
	}
	switch parts[0] {
	case "me":
		if req.Method != http.MethodGet {
			r.methodNotAllowed(w)
			return
		}
		r.handlerAuthRate("profile", rateLimitUserRead, rateWindowDefault, r.handleOwnProfile)(w, req)
	case "user":
		if len(parts) != 2 || parts[1] == "" || req.Method != http.MethodGet {
			r.notFound(w)
			return
		}
		r.withRateLimit("profiles", rateLimitPublic, rateWindowDefault, rateLimitKeyIP, func(w http.ResponseWriter, req *http.Request) {
			r.handleProfileByUser(w, req, parts[1])
		})(w, req)
	case "github":
		if len(parts) != 2 || parts[1] == "" || req.Method != http.MethodGet {
			r.notFound(w)
			return
		}
		r.withRateLimit("github", rateLimitPublic, rateWindowDefault, rateLimitKeyIP, func(w http.ResponseWriter, req *http.Request) {
			r.handleGithubRepos(w, req, parts[1])
		})(w, req)
	case "experience":
		r.handleExperience(w, req, parts[1:])
	case "education":
		r.handleEducation(w, req, parts[1:])
	default:
		r.notFound(w)
	}
}

func (r *Router) handleOwnProfile(w http.ResponseWriter, req *http.Request) {
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for own profile", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	prof, err := r.profile.Get(req.Context(), info.UserID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			writeError(w, http.StatusBadRequest, "There is no profile for that user")
			return
		}
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

func (r *Router) handleProfileByUser(w http.ResponseWriter, req *http.Request, userID string) {
	prof, err := r.profile.Get(req.Context(), userID)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

func (r *Router) handleGithubRepos(w http.ResponseWriter, req *http.Request, username string) {
	repos, err := r.github.Repos(req.Context(), username)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, repos)
}

func (r *Router) handleExperience(w http.ResponseWriter, req *http.Request, rest []string) {
	switch {
	case len(rest) == 0 && req.Method == http.MethodPut:
		r.handlerAuthRate("profile", rateLimitUserWrite, rateWindowDefault, r.handleAddExperience)(w, req)
	case len(rest) == 1 && rest[0] != "" && req.Method == http.MethodDelete:
		r.handlerAuthRate("profile", rateLimitUserWrite, rateWindowDefault, func(w http.ResponseWriter, req *http.Request) {
			r.handleRemoveEntry(w, req, rest[0], r.profile.RemoveExperience)
		})(w, req)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleEducation(w http.ResponseWriter, req *http.Request, rest []string) {
	switch {
	case len(rest) == 0 && req.Method == http.MethodPut:
		r.handlerAuthRate("profile", rateLimitUserWrite, rateWindowDefault, r.handleAddEducation)(w, req)
	case len(rest) == 1 && rest[0] != "" && req.Method == http.MethodDelete:
		r.handlerAuthRate("profile", rateLimitUserWrite, rateWindowDefault, func(w http.ResponseWriter, req *http.Request) {
			r.handleRemoveEntry(w, req, rest[0], r.profile.RemoveEducation)
		})(w, req)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleAddExperience(w http.ResponseWriter, req *http.Request) {
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for experience", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	var payload profile.ExperienceInput
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	prof, err := r.profile.AddExperience(req.Context(), info.UserID, payload)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

func (r *Router) handleAddEducation(w http.ResponseWriter, req *http.Request) {
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for education", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	var payload profile.EducationInput
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	prof, err := r.profile.AddEducation(req.Context(), info.UserID, payload)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

type removeEntryFn func(ctx context.Context, userID, entryID string) (*domain.Profile, error)

// handleRemoveEntry deletes an experience/education entry owned by the caller.
func (r *Router) handleRemoveEntry(w http.ResponseWriter, req *http.Request, entryID string, remove removeEntryFn) {
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for entry removal", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	prof, err := remove(req.Context(), info.UserID, entryID)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

func (r *Router) handlePosts(w http.ResponseWriter, req *http.Request) {
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for posts", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	switch req.Method {
	case http.MethodPost:
		var payload struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		created, err := r.post.Create(req.Context(), info.UserID, payload.Text)
		if err != nil {
			r.writeServiceError(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, created)
	case http.MethodGet:
		posts, err := r.post.List(req.Context())
		if err != nil {
			r.writeServiceError(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, posts)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handlePostSubroutes(w http.ResponseWriter, req *http.Request) {
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for post subroutes", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	trimmed := strings.TrimPrefix(req.URL.Path, "/api/posts/")
	parts := strings.Split(trimmed, "/")
	if len(parts) == 0 || parts[0] == "" {
		r.notFound(w)
		return
	}
	switch parts[0] {
	case "like":
		if len(parts) != 2 || parts[1] == "" || req.Method != http.MethodPut {
			r.methodNotAllowed(w)
			return
		}
		likes, err := r.post.Like(req.Context(), parts[1], info.UserID)
		if err != nil {
			r.writeServiceError(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, likes)
	case "unlike":
		if len(parts) != 2 || parts[1] == "" || req.Method != http.MethodPut {
			r.methodNotAllowed(w)
			return
		}
		likes, err := r.post.Unlike(req.Context(), parts[1], info.UserID)
		if err != nil {
			r.writeServiceError(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, likes)
	case "comment":
		r.handleComments(w, req, info, parts[1:])
	default:
		r.handleSinglePost(w, req, info, parts[0])
	}
}

func (r *Router) handleSinglePost(w http.ResponseWriter, req *http.Request, info authInfo, postID string) {
	switch req.Method {
	case http.MethodGet:
		found, err := r.post.Get(req.Context(), postID)
		if err != nil {
			r.writeServiceError(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, found)
	case http.MethodDelete:
		if err := r.post.Delete(req.Context(), postID, info.UserID); err != nil {
			r.writeServiceError(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"msg": "Post has been removed"})
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleComments(w http.ResponseWriter, req *http.Request, info authInfo, parts []string) {
	switch {
	case len(parts) == 1 && parts[0] != "" && req.Method == http.MethodPost:
		var payload struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		comments, err := r.post.AddComment(req.Context(), parts[0], info.UserID, payload.Text)
		if err != nil {
			r.writeServiceError(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, comments)
	case len(parts) == 2 && parts[0] != "" && parts[1] != "" && req.Method == http.MethodDelete:
		comments, err := r.post.DeleteComment(req.Context(), parts[0], parts[1], info.UserID)
		if err != nil {
			r.writeServiceError(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, comments)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleFeedWS(w http.ResponseWriter, req *http.Request) {
	if _, ok := authInfoFromContext(req.Context()); !ok {
		r.logger.Error("auth context missing for feed websocket", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	if r.feedHub == nil {
		writeError(w, http.StatusServiceUnavailable, "feed unavailable")
		return
	}
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	client := ws.NewClient(conn, r.logger)
	r.feedHub.Register(post.FeedTopic, client)
	go func() {
		defer func() {
			r.feedHub.Unregister(post.FeedTopic, client)
			client.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (r *Router) handleHealthz(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	components := make(map[string]any)
	status := "ok"
	if r.dbHealth != nil {
		ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
		defer cancel()
		if err := r.dbHealth(ctx); err != nil {
			status = "degraded"
			components["database"] = map[string]any{
				"status": "down",
				"error":  err.Error(),
			}
		} else {
			components["database"] = map[string]any{"status": "up"}
		}
	}
	payload := map[string]any{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
	}
	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, payload)
}

func (r *Router) audit(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next(recorder, req)

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		ctx := recorder.ctx
		if ctx == nil {
			ctx = req.Context()
		}
		duration := time.Since(start)
		r.recordRequestMetrics(req.Method, route, status, duration)

		actor := "anonymous"
		fields := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"bytes", recorder.bytes,
			"duration_ms", duration.Milliseconds(),
		}
		if ip := clientIP(req); ip != "" {
			fields = append(fields, "ip", ip)
		}
		if reqID := strings.TrimSpace(req.Header.Get("X-Request-ID")); reqID != "" {
			fields = append(fields, "request_id", reqID)
		}
		if info, ok := authInfoFromContext(ctx); ok {
			actor = "user"
			fields = append(fields, "user_id", info.UserID)
		}
		fields = append(fields, "actor", actor)

		switch {
		case status >= http.StatusInternalServerError:
			r.logger.Error("http_request", fields...)
		case status >= http.StatusBadRequest:
			r.logger.Warn("http_request", fields...)
		default:
			r.logger.Info("http_request", fields...)
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	ctx    context.Context
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

func (sr *statusRecorder) SetContext(ctx context.Context) {
	sr.ctx = ctx
}

func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := sr.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, errors.New("hijacker not supported")
}

func clientIP(req *http.Request) string {
	if forwarded := strings.TrimSpace(req.Header.Get("X-Forwarded-For")); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(req.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(req.RemoteAddr)
	}
	return host
}

func (r *Router) applyRateHeaders(w http.ResponseWriter, limit int, decision rateDecision) {
	if limit <= 0 {
		return
	}
	remaining := limit - decision.count
	if remaining < 0 {
		remaining = 0
	}
	headers := w.Header()
	headers.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	headers.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	if !decision.windowEnd.IsZero() {
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(decision.windowEnd.Unix(), 10))
	}
}

func (r *Router) methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (r *Router) notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "not found")
}
