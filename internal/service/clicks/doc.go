// Package clicks counts link clicks from course emails and the landing page.
package clicks
