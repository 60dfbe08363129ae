package provider

// Registry 服务商注册表
// 构造时一次性接收全部服务商，之后只读，可安全并发访问
type Registry struct {
	slugs  []string
	bySlug map[string]Provider
}

// NewRegistry 创建注册表（保留传入顺序）
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{
		slugs:  make([]string, 0, len(providers)),
		bySlug: make(map[string]Provider, len(providers)),
	}
	for _, p := range providers {
		if _, ok := r.bySlug[p.Slug()]; ok {
			continue
		}
		r.slugs = append(r.slugs, p.Slug())
		r.bySlug[p.Slug()] = p
	}
	return r
}

// NewDefaultRegistry 创建包含全部内置服务商的注册表
func NewDefaultRegistry() *Registry {
	return NewRegistry(
		NewGoogleRoutes(),
		NewMapboxMatrix(),
		NewDistanceMatrixAI(),
		NewGeoapifyRouting(),
	)
}

// Get 按 slug 查找服务商
func (r *Registry) Get(slug string) (Provider, bool) {
	p, ok := r.bySlug[slug]
	return p, ok
}

// Slugs 返回全部 slug（注册顺序）
func (r *Registry) Slugs() []string {
	out := make([]string, len(r.slugs))
	copy(out, r.slugs)
	return out
}

// All 返回全部服务商（注册顺序）
func (r *Registry) All() []Provider {
	out := make([]Provider, 0, len(r.slugs))
	for _, slug := range r.slugs {
		out = append(out, r.bySlug[slug])
	}
	return out
}
