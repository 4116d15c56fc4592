package templates

// The scripts below run in a Python sandbox with the requests package
// installed. Credential placeholders are filled by the sandbox executor;
// {name} placeholders are filled by Render. Each script is self-contained
// and prints a single JSON object to stdout.

// prologue is the shared setup block: API endpoints and auth headers derived
// the same way the driver derives them.
const prologue = `import json
import os

import requests

API_URL = os.environ.get('POSTHOG_API_URL', 'https://us.posthog.com').rstrip('/')
CAPTURE_URL = API_URL.replace('posthog.com', 'i.posthog.com', 1)
PROJECT_ID = '<project_id_placeholder>'
HEADERS = {'Authorization': 'Bearer <api_key_placeholder>'}


def hogql(query):
    resp = requests.post(
        API_URL + '/api/projects/' + PROJECT_ID + '/query/',
        headers=HEADERS,
        json={'query': {'kind': 'HogQLQuery', 'query': query}},
        timeout=30,
    )
    resp.raise_for_status()
    return resp.json().get('results', [])
`

// ---------------------------------------------------------------------------
// Event tracking
// ---------------------------------------------------------------------------

const captureEvent = prologue + `
resp = requests.post(
    CAPTURE_URL + '/i/v0/e/',
    json={
        'api_key': '<project_api_key_placeholder>',
        'event': '{event_name}',
        'distinct_id': '{distinct_id}',
        'properties': {properties},
    },
    timeout=30,
)
resp.raise_for_status()

print(json.dumps({'success': True, 'result': resp.json()}))
`

const captureBatchEvents = prologue + `
events = {events_list}

resp = requests.post(
    CAPTURE_URL + '/batch/',
    json={'api_key': '<project_api_key_placeholder>', 'batch': events},
    timeout=30,
)
resp.raise_for_status()

print(json.dumps({'success': True, 'events_count': len(events), 'result': resp.json()}))
`

// ---------------------------------------------------------------------------
// Analytics queries
// ---------------------------------------------------------------------------

const getRecentEvents = prologue + `
conditions = ["timestamp >= '{after_date}'"]
if '{event_name}':
    conditions.append("event = '{event_name}'")

events = hogql(
    'SELECT * FROM events WHERE ' + ' AND '.join(conditions) + ' LIMIT {limit}'
)

print(json.dumps({
    'success': True,
    'count': len(events),
    'events': events,
}, indent=2))
`

const hogqlQuery = prologue + `
query = '''{hogql_query}'''

results = hogql(query)

print(json.dumps({
    'success': True,
    'rows': len(results),
    'results': results,
}, indent=2))
`

const getInsights = prologue + `
params = {'limit': {limit}, 'offset': 0}
if '{insight_type}':
    params['insight'] = '{insight_type}'.upper()

resp = requests.get(
    API_URL + '/api/projects/' + PROJECT_ID + '/insights/',
    headers=HEADERS,
    params=params,
    timeout=30,
)
resp.raise_for_status()
insights = resp.json().get('results', [])

formatted = [
    {
        'id': i['id'],
        'name': i['name'],
        'type': i.get('filters', {}).get('insight', 'UNKNOWN'),
        'created_at': i.get('created_at'),
    }
    for i in insights
]

print(json.dumps({
    'success': True,
    'count': len(insights),
    'insights': formatted,
}, indent=2))
`

// ---------------------------------------------------------------------------
// Data export / ETL
// ---------------------------------------------------------------------------

const exportEventsETL = prologue + `
conditions = [
    "timestamp >= '{start_date}'",
    "timestamp <= '{end_date}'",
]
event_names = {event_names}
if event_names:
    quoted = ', '.join("'" + n + "'" for n in event_names)
    conditions.append('event IN (' + quoted + ')')

events = hogql('SELECT * FROM events WHERE ' + ' AND '.join(conditions))

print(json.dumps({
    'success': True,
    'exported_count': len(events),
    'date_range': {'start': '{start_date}', 'end': '{end_date}'},
    'sample': events[:5],
}, indent=2))
`

const exportCohortData = prologue + `
cohort_id = {cohort_id}

resp = requests.get(
    API_URL + '/api/projects/' + PROJECT_ID + '/persons/',
    headers=HEADERS,
    params={'cohort': cohort_id, 'limit': 100},
    timeout=30,
)
resp.raise_for_status()
persons = resp.json().get('results', [])

print(json.dumps({
    'success': True,
    'cohort_id': cohort_id,
    'persons_count': len(persons),
    'persons': persons,
}, indent=2))
`

// ---------------------------------------------------------------------------
// Cohort and persona analysis
// ---------------------------------------------------------------------------

const identifyPowerUsers = prologue + `
# Users who performed the key action {min_occurrences}+ times in {days} days.
power_users = hogql('''
SELECT
    distinct_id,
    count() as action_count,
    person.properties.email as email
FROM events
WHERE
    event = '{key_event}'
    AND timestamp >= now() - INTERVAL {days} DAY
GROUP BY distinct_id, email
HAVING action_count >= {min_occurrences}
ORDER BY action_count DESC
LIMIT 100
''')

print(json.dumps({
    'success': True,
    'power_users_count': len(power_users),
    'criteria': {
        'event': '{key_event}',
        'min_occurrences': {min_occurrences},
        'time_period_days': {days},
    },
    'power_users': power_users,
}, indent=2))
`

const identifyChurnRisk = prologue + `
# Users active in the lookback window but silent for {inactive_days} days.
churn_risk_users = hogql('''
SELECT DISTINCT
    distinct_id,
    person.properties.email as email,
    max(timestamp) as last_seen
FROM events
WHERE
    timestamp >= now() - INTERVAL {lookback_days} DAY
    AND timestamp < now() - INTERVAL {inactive_days} DAY
    AND distinct_id NOT IN (
        SELECT DISTINCT distinct_id
        FROM events
        WHERE timestamp >= now() - INTERVAL {inactive_days} DAY
    )
GROUP BY distinct_id, email
ORDER BY last_seen DESC
LIMIT 200
''')

print(json.dumps({
    'success': True,
    'churn_risk_count': len(churn_risk_users),
    'criteria': {
        'inactive_for_days': {inactive_days},
        'previously_active_days': {lookback_days},
    },
    'users': churn_risk_users,
}, indent=2))
`

// ---------------------------------------------------------------------------
// Funnel and conversion analysis
// ---------------------------------------------------------------------------

const analyzeFunnelDropoff = prologue + `
funnel_steps = {funnel_steps}

counts = {}
for step in funnel_steps:
    rows = hogql(
        "SELECT count(DISTINCT distinct_id) as count FROM events "
        "WHERE event = '" + step + "' "
        "AND timestamp >= '{start_date}' AND timestamp <= '{end_date}'"
    )
    counts[step] = rows[0]['count'] if rows else 0

funnel_data = []
prev_count = None
for step in funnel_steps:
    count = counts[step]
    dropoff_rate = None
    if prev_count is not None and prev_count > 0:
        dropoff_rate = round(((prev_count - count) / prev_count) * 100, 2)
    funnel_data.append({
        'step': step,
        'users': count,
        'dropoff_rate': dropoff_rate,
    })
    prev_count = count

print(json.dumps({
    'success': True,
    'funnel_steps': len(funnel_steps),
    'funnel_analysis': funnel_data,
}, indent=2))
`

// ---------------------------------------------------------------------------
// Feature flags and experimentation
// ---------------------------------------------------------------------------

const getExperimentResults = prologue + `
resp = requests.get(
    API_URL + '/api/projects/' + PROJECT_ID + '/experiments/',
    headers=HEADERS,
    timeout=30,
)
resp.raise_for_status()
experiments = resp.json().get('results', [])

formatted = [
    {
        'id': exp['id'],
        'name': exp['name'],
        'feature_flag': exp.get('feature_flag_key'),
        'start_date': exp.get('start_date'),
        'end_date': exp.get('end_date'),
        'results': exp.get('results', {}),
    }
    for exp in experiments
]

print(json.dumps({
    'success': True,
    'experiments_count': len(experiments),
    'experiments': formatted,
}, indent=2))
`

const evaluateFeatureFlags = prologue + `
resp = requests.get(
    API_URL + '/api/projects/' + PROJECT_ID + '/feature_flags/',
    headers=HEADERS,
    timeout=30,
)
resp.raise_for_status()
flags = resp.json().get('results', [])

resp = requests.post(
    CAPTURE_URL + '/flags/',
    json={
        'api_key': '<project_api_key_placeholder>',
        'distinct_id': '{distinct_id}',
        'key': '{flag_key}',
    },
    timeout=30,
)
resp.raise_for_status()

print(json.dumps({
    'success': True,
    'total_flags': len(flags),
    'evaluation': resp.json(),
    'user': '{distinct_id}',
}, indent=2))
`

// ---------------------------------------------------------------------------
// Error tracking and monitoring
// ---------------------------------------------------------------------------

const trackErrorEvents = prologue + `
errors = hogql('''
SELECT
    event,
    properties.error_type as error_type,
    properties.error_message as error_message,
    count() as occurrences,
    count(DISTINCT distinct_id) as affected_users
FROM events
WHERE
    event LIKE '%error%' OR event LIKE '%failed%'
    AND timestamp >= '{start_date}'
    AND timestamp <= '{end_date}'
GROUP BY event, error_type, error_message
ORDER BY occurrences DESC
LIMIT 50
''')

print(json.dumps({
    'success': True,
    'error_types_count': len(errors),
    'errors': errors,
}, indent=2))
`
