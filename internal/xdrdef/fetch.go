package xdrdef

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	DefaultRawURL = "https://raw.githubusercontent.com/stellar/stellar-xdr"
	DefaultAPIURL = "https://api.github.com/repos/stellar/stellar-xdr"
	userAgent     = "stellar-txkit-xdrdef"
)

// ErrRateLimited is returned when GitHub refuses a request because the rate
// limit is exhausted. An access token raises the limit.
var ErrRateLimited = errors.New("GitHub API rate limit exceeded")

// Fetcher downloads the .x files of a stellar-xdr release. Requests that
// fail with a network error or a 5xx status are retried with exponential
// backoff.
type Fetcher struct {
	HTTPClient *http.Client
	// Token is sent as a bearer token when set.
	Token           string
	RawURL          string
	APIURL          string
	MaxRetries      uint64
	InitialInterval time.Duration
}

func NewFetcher(token string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		HTTPClient:      &http.Client{Timeout: timeout},
		Token:           token,
		RawURL:          DefaultRawURL,
		APIURL:          DefaultAPIURL,
		MaxRetries:      3,
		InitialInterval: time.Second,
	}
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", userAgent)
		if f.Token != "" {
			req.Header.Set("Authorization", "Bearer "+f.Token)
		}
		resp, err := f.HTTPClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		switch {
		case resp.StatusCode == http.StatusOK:
			body = data
			return nil
		case resp.StatusCode >= 500:
			return errors.Errorf("GET %s: %s", url, resp.Status)
		case resp.StatusCode == http.StatusForbidden && strings.Contains(strings.ToLower(string(data)), "rate limit"):
			authenticated := "unauthenticated"
			if f.Token != "" {
				authenticated = "authenticated"
			}
			return backoff.Permanent(errors.Wrapf(ErrRateLimited, "GET %s (%s)", url, authenticated))
		default:
			return backoff.Permanent(errors.Errorf("GET %s: %s", url, resp.Status))
		}
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = f.InitialInterval
	policy.MaxElapsedTime = 0
	notify := func(err error, d time.Duration) {
		log.Warn().Err(err).Dur("retry_in", d).Msg("xdr fetch failed, retrying")
	}
	err := backoff.RetryNotify(op, backoff.WithContext(backoff.WithMaxRetries(policy, f.MaxRetries), ctx), notify)
	return body, err
}

// LatestTag returns the tag of the newest stellar-xdr release.
func (f *Fetcher) LatestTag(ctx context.Context) (string, error) {
	data, err := f.get(ctx, f.APIURL+"/releases/latest")
	if err != nil {
		return "", errors.Wrap(err, "latest release")
	}
	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.Unmarshal(data, &release); err != nil {
		return "", errors.Wrap(err, "decode latest release")
	}
	if release.TagName == "" {
		return "", errors.New("latest release has no tag")
	}
	return release.TagName, nil
}

// ListFiles returns the sorted names of the .x files at tag.
func (f *Fetcher) ListFiles(ctx context.Context, tag string) ([]string, error) {
	data, err := f.get(ctx, fmt.Sprintf("%s/contents?ref=%s", f.APIURL, tag))
	if err != nil {
		return nil, errors.Wrapf(err, "list files of %s", tag)
	}
	var contents []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &contents); err != nil {
		return nil, errors.Wrap(err, "decode repository contents")
	}
	var names []string
	for _, c := range contents {
		if c.Type == "file" && strings.HasSuffix(c.Name, ".x") {
			names = append(names, c.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (f *Fetcher) FetchFile(ctx context.Context, tag, name string) (string, error) {
	data, err := f.get(ctx, fmt.Sprintf("%s/%s/%s", f.RawURL, tag, name))
	if err != nil {
		return "", errors.Wrapf(err, "fetch %s at %s", name, tag)
	}
	return string(data), nil
}

// NormalizeTag maps "22.0" to "v22.0". "latest" is left for Fetch to look up.
func NormalizeTag(version string) string {
	if strings.EqualFold(version, "latest") || strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

// Fetch downloads every .x file of version ("latest", "v22.0" or "22.0").
// Files that cannot be downloaded are logged and listed in failed; it is an
// error only when nothing could be fetched.
func (f *Fetcher) Fetch(ctx context.Context, version string) (tag string, files map[string]string, failed []string, err error) {
	tag = NormalizeTag(version)
	if strings.EqualFold(tag, "latest") {
		if tag, err = f.LatestTag(ctx); err != nil {
			return "", nil, nil, err
		}
	}
	names, err := f.ListFiles(ctx, tag)
	if err != nil {
		return "", nil, nil, err
	}
	if len(names) == 0 {
		return "", nil, nil, errors.Errorf("no .x files in stellar-xdr %s", tag)
	}

	files = make(map[string]string, len(names))
	for _, name := range names {
		src, err := f.FetchFile(ctx, tag, name)
		if err != nil {
			if ctx.Err() != nil {
				return "", nil, nil, ctx.Err()
			}
			log.Warn().Err(err).Str("file", name).Str("tag", tag).Msg("skipping xdr file")
			failed = append(failed, name)
			continue
		}
		files[name] = src
	}
	if len(files) == 0 {
		return "", nil, nil, errors.Errorf("failed to fetch any .x file from stellar-xdr %s", tag)
	}
	return tag, files, failed, nil
}
