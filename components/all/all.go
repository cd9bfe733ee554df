// Package all links every shipped component into a binary.  Each import
// registers itself with internal/component from its init().
package all

import (
	_ "github.com/yanizio/corpsite/components/auth"
	_ "github.com/yanizio/corpsite/components/blog"
	_ "github.com/yanizio/corpsite/components/contact"
	_ "github.com/yanizio/corpsite/components/health"
	_ "github.com/yanizio/corpsite/components/home"
	_ "github.com/yanizio/corpsite/components/pages"
	_ "github.com/yanizio/corpsite/components/services"
	_ "github.com/yanizio/corpsite/components/theme"
)
