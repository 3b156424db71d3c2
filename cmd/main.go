// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// docredact finds and replaces personal information in documents.
//
// Usage:
//
//	# Start the HTTP API
//	docredact serve
//
//	# Redact a text or PDF file, printing the substitution log to stderr
//	docredact redact --file report.pdf --all --output report.redacted.txt
//
//	# Extract PDF text or render text to PDF
//	docredact extract --file report.pdf
//	docredact render --file report.redacted.txt --output report.redacted.pdf
package main

func main() {
	Execute()
}
