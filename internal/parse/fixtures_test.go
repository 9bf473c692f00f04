package parse

// Fixture texts mimic pdftotext -layout output for the two extract layouts.

const currentText = `Current details for ABN 99 125 524 457

ABN details

Entity name: Example Pty Ltd

ABN status: Active from 01 May 2010

Entity type: Australian Private Company

Goods & Services Tax (GST): Registered from 01 May 2010

Main business location: NSW 2000

Business name(s)
Example Trading Co          12 Feb 2015

Trading name(s)
No trading names found

Record extracted 21 Aug 2026
`

const historicalText = `Historical details for ABN 99 125 524 457

Entity name                          From           To
EXAMPLE PTY LTD                      01 May 2010    (current)
OLD EXAMPLE HOLDINGS PTY LTD         15 Mar 2005    01 May 2010

ABN status                           From           To
Active                               01 May 2010    (current)
Cancelled                            15 Mar 2005    01 May 2010

Entity type: Australian Private Company

Goods & Services Tax (GST)           From           To
Registered                           01 Jul 2010    30 Jun 2018

Main business location               From           To
NSW 2000                             01 May 2010    30 Jun 2015
VIC 3000                             30 Jun 2015    (current)

Trading name(s)                      From           To
EXAMPLE TRADING                      01 Jul 2010    (current)

ASIC registration
ACN 125 524 457

Record extracted 21 Aug 2026
ABN last updated: 14 Feb 2024
`
