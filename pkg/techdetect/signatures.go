package techdetect

import "regexp"

// signature is a compiled fingerprint. A nil pattern in a map means the
// key only has to be present.
type signature struct {
	name       string
	categories []string
	headers    map[string]*regexp.Regexp // canonical header name
	cookies    []string
	meta       map[string]*regexp.Regexp
	scripts    []*regexp.Regexp // matched against script src URLs
	html       []*regexp.Regexp
	js         map[string]*regexp.Regexp // dotted global path, e.g. "jQuery.fn.jquery"
	implies    []string
}

// Match weights, summed per signature and capped at 100.
const (
	weightHeader = 30
	weightJS     = 30
	weightHTML   = 25
	weightScript = 25
	weightCookie = 20
	weightMeta   = 20
)

func re(p string) *regexp.Regexp {
	return regexp.MustCompile(p)
}

func builtinSignatures() []signature {
	return []signature{
		{
			name:       "WordPress",
			categories: []string{"CMS", "Blogs"},
			html:       []*regexp.Regexp{re(`(?i)/wp-(?:content|includes)/`)},
			meta:       map[string]*regexp.Regexp{"generator": re(`(?i)wordpress`)},
			js:         map[string]*regexp.Regexp{"wp": nil},
			implies:    []string{"PHP", "MySQL"},
		},
		{
			name:       "Drupal",
			categories: []string{"CMS"},
			headers:    map[string]*regexp.Regexp{"X-Drupal-Cache": nil, "X-Generator": re(`(?i)drupal`)},
			meta:       map[string]*regexp.Regexp{"generator": re(`(?i)drupal`)},
			js:         map[string]*regexp.Regexp{"Drupal": nil},
			implies:    []string{"PHP"},
		},
		{
			name:       "Joomla",
			categories: []string{"CMS"},
			meta:       map[string]*regexp.Regexp{"generator": re(`(?i)joomla`)},
			html:       []*regexp.Regexp{re(`(?i)/media/jui/`)},
			implies:    []string{"PHP"},
		},
		{
			name:       "React",
			categories: []string{"JavaScript frameworks"},
			html:       []*regexp.Regexp{re(`(?i)data-reactroot|_reactRootContainer`)},
			scripts:    []*regexp.Regexp{re(`(?i)react(?:-dom)?(?:\.production)?(?:\.min)?\.js`)},
			js:         map[string]*regexp.Regexp{"React.version": nil},
		},
		{
			name:       "Vue.js",
			categories: []string{"JavaScript frameworks"},
			html:       []*regexp.Regexp{re(`(?i)\sdata-v-[0-9a-f]{6,}|\sv-cloak`)},
			scripts:    []*regexp.Regexp{re(`(?i)vue(?:\.runtime)?(?:\.global)?(?:\.min)?\.js|/vue@`)},
			js:         map[string]*regexp.Regexp{"Vue.version": nil, "__VUE__": nil},
		},
		{
			name:       "Angular",
			categories: []string{"JavaScript frameworks"},
			html:       []*regexp.Regexp{re(`(?i)\sng-version="`)},
			js:         map[string]*regexp.Regexp{"ng.getComponent": nil},
		},
		{
			name:       "AngularJS",
			categories: []string{"JavaScript frameworks"},
			html:       []*regexp.Regexp{re(`(?i)\sng-app[=\s>]|\sng-controller=`)},
			scripts:    []*regexp.Regexp{re(`(?i)angular(?:\.min)?\.js`)},
			js:         map[string]*regexp.Regexp{"angular.version.full": nil},
		},
		{
			name:       "jQuery",
			categories: []string{"JavaScript libraries"},
			scripts:    []*regexp.Regexp{re(`(?i)jquery[.-]?\d|jquery(?:\.min)?\.js`)},
			js:         map[string]*regexp.Regexp{"jQuery.fn.jquery": nil},
		},
		{
			name:       "Bootstrap",
			categories: []string{"UI frameworks"},
			html:       []*regexp.Regexp{re(`(?i)bootstrap(?:\.min)?\.css`)},
			scripts:    []*regexp.Regexp{re(`(?i)bootstrap(?:\.bundle)?(?:\.min)?\.js`)},
		},
		{
			name:       "Next.js",
			categories: []string{"Web frameworks"},
			headers:    map[string]*regexp.Regexp{"X-Powered-By": re(`(?i)next\.js`)},
			html:       []*regexp.Regexp{re(`__NEXT_DATA__|/_next/static/`)},
			js:         map[string]*regexp.Regexp{"__NEXT_DATA__": nil},
			implies:    []string{"React", "Node.js"},
		},
		{
			name:       "Nuxt.js",
			categories: []string{"Web frameworks"},
			html:       []*regexp.Regexp{re(`__NUXT__|/_nuxt/`)},
			js:         map[string]*regexp.Regexp{"__NUXT__": nil},
			implies:    []string{"Vue.js", "Node.js"},
		},
		{
			name:       "Laravel",
			categories: []string{"Web frameworks"},
			cookies:    []string{"laravel_session"},
			implies:    []string{"PHP"},
		},
		{
			name:       "Django",
			categories: []string{"Web frameworks"},
			cookies:    []string{"csrftoken", "django_language"},
			html:       []*regexp.Regexp{re(`name="csrfmiddlewaretoken"`)},
			implies:    []string{"Python"},
		},
		{
			name:       "Express",
			categories: []string{"Web frameworks"},
			headers:    map[string]*regexp.Regexp{"X-Powered-By": re(`(?i)express`)},
			implies:    []string{"Node.js"},
		},
		{
			name:       "Ruby on Rails",
			categories: []string{"Web frameworks"},
			headers:    map[string]*regexp.Regexp{"X-Powered-By": re(`(?i)phusion|rails`)},
			cookies:    []string{"_rails_session"},
			meta:       map[string]*regexp.Regexp{"csrf-param": re(`^authenticity_token$`)},
			implies:    []string{"Ruby"},
		},
		{
			name:       "ASP.NET",
			categories: []string{"Web frameworks"},
			headers:    map[string]*regexp.Regexp{"X-Powered-By": re(`(?i)asp\.net`), "X-Aspnet-Version": nil},
			cookies:    []string{"ASP.NET_SessionId", ".ASPXAUTH"},
			html:       []*regexp.Regexp{re(`(?i)<input[^>]+name="__VIEWSTATE"`)},
		},
		{
			name:       "PHP",
			categories: []string{"Programming languages"},
			headers:    map[string]*regexp.Regexp{"X-Powered-By": re(`(?i)php`)},
			cookies:    []string{"PHPSESSID"},
		},
		{
			name:       "Nginx",
			categories: []string{"Web servers", "Reverse proxies"},
			headers:    map[string]*regexp.Regexp{"Server": re(`(?i)nginx`)},
		},
		{
			name:       "Apache HTTP Server",
			categories: []string{"Web servers"},
			headers:    map[string]*regexp.Regexp{"Server": re(`(?i)apache`)},
		},
		{
			name:       "Microsoft IIS",
			categories: []string{"Web servers"},
			headers:    map[string]*regexp.Regexp{"Server": re(`(?i)microsoft-iis`)},
			implies:    []string{"Windows Server"},
		},
		{
			name:       "Caddy",
			categories: []string{"Web servers"},
			headers:    map[string]*regexp.Regexp{"Server": re(`(?i)caddy`)},
			implies:    []string{"Go"},
		},
		{
			name:       "LiteSpeed",
			categories: []string{"Web servers"},
			headers:    map[string]*regexp.Regexp{"Server": re(`(?i)litespeed`)},
		},
		{
			name:       "Cloudflare",
			categories: []string{"CDN"},
			headers:    map[string]*regexp.Regexp{"Cf-Ray": nil, "Server": re(`(?i)cloudflare`)},
			cookies:    []string{"__cf_bm", "__cfduid"},
		},
		{
			name:       "Amazon CloudFront",
			categories: []string{"CDN"},
			headers:    map[string]*regexp.Regexp{"X-Amz-Cf-Id": nil, "Via": re(`(?i)cloudfront`)},
			implies:    []string{"Amazon Web Services"},
		},
		{
			name:       "Varnish",
			categories: []string{"Caching"},
			headers:    map[string]*regexp.Regexp{"X-Varnish": nil, "Via": re(`(?i)varnish`)},
		},
		{
			name:       "Google Analytics",
			categories: []string{"Analytics"},
			scripts:    []*regexp.Regexp{re(`(?i)google-analytics\.com/(?:ga|analytics)\.js|googletagmanager\.com/gtag/js`)},
			js:         map[string]*regexp.Regexp{"gtag": nil, "GoogleAnalyticsObject": nil},
		},
		{
			name:       "Google Tag Manager",
			categories: []string{"Tag managers"},
			scripts:    []*regexp.Regexp{re(`(?i)googletagmanager\.com/gtm\.js`)},
			js:         map[string]*regexp.Regexp{"google_tag_manager": nil},
		},
	}
}
