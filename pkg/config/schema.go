package config

// Schema is the JSON schema for validating configuration files.
// host, username and path are not listed as required: their absence is
// reported as an incomplete config, not a malformed one.
const Schema = `{
    "$schema": "http://json-schema.org/draft-07/schema#",
    "type": "object",
    "properties": {
        "host": {
            "type": ["string", "null"],
            "description": "Remote hostname or IP"
        },
        "username": {
            "type": ["string", "null"],
            "description": "Remote login user"
        },
        "path": {
            "type": ["string", "null"],
            "description": "Remote destination directory"
        },
        "password": {
            "type": ["string", "null"]
        },
        "exclude": {
            "type": "array",
            "items": {"type": "string"}
        },
        "pre": {
            "type": "array",
            "items": {"type": "string"}
        },
        "post": {
            "type": "array",
            "items": {"type": "string"}
        },
        "port": {
            "type": "integer",
            "minimum": 1,
            "maximum": 65535
        },
        "identity_file": {
            "type": "string"
        },
        "known_hosts": {
            "type": "string"
        },
        "transport": {
            "type": "string",
            "enum": ["scp", "sftp", "local"]
        },
        "log_level": {
            "type": "string",
            "enum": ["debug", "info", "warn", "error"]
        },
        "log_format": {
            "type": "string",
            "enum": ["json", "console"]
        }
    }
}`
